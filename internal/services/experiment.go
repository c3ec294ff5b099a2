package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/abexp/abexp-backend/internal/domain"
	"github.com/abexp/abexp-backend/internal/pkg/logger"
	"github.com/abexp/abexp-backend/internal/repos"
)

type ExperimentService interface {
	CreateExperiment(ctx context.Context, req domain.CreateExperimentRequest) (*domain.Experiment, error)
	GetAllExperiments(ctx context.Context) ([]domain.Experiment, error)
	GetDeviceExperiments(ctx context.Context, deviceID domain.DeviceID) ([]domain.DeviceExperiment, error)
	GetStatistics(ctx context.Context) ([]domain.StatisticsExperiment, error)
	FinishExperiment(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type experimentService struct {
	db             *gorm.DB
	log            *logger.Logger
	experimentRepo repos.ExperimentRepo
	deviceRepo     repos.DeviceRepo
}

func NewExperimentService(db *gorm.DB, log *logger.Logger, experimentRepo repos.ExperimentRepo, deviceRepo repos.DeviceRepo) ExperimentService {
	return &experimentService{
		db:             db,
		log:            log.With("service", "ExperimentService"),
		experimentRepo: experimentRepo,
		deviceRepo:     deviceRepo,
	}
}

func (s *experimentService) CreateExperiment(ctx context.Context, req domain.CreateExperimentRequest) (*domain.Experiment, error) {
	exp := domain.NewExperiment(uuid.New(), req.Name, req.Variants, time.Now().UTC(), nil)
	if err := s.experimentRepo.Create(ctx, nil, &exp); err != nil {
		return nil, err
	}
	s.log.Info("Experiment created", "experiment_id", exp.ID, "name", exp.Name)
	return &exp, nil
}

func (s *experimentService) GetAllExperiments(ctx context.Context) ([]domain.Experiment, error) {
	return s.experimentRepo.GetAll(ctx, nil)
}

// GetDeviceExperiments registers the device on first contact and returns the
// variant assignments for every active experiment the device is eligible
// for. Only the first registration fixes the device's CreatedAt; later
// queries reuse the stored row, so eligibility never shifts retroactively.
func (s *experimentService) GetDeviceExperiments(ctx context.Context, deviceID domain.DeviceID) ([]domain.DeviceExperiment, error) {
	device := domain.NewDevice(deviceID, time.Now().UTC())
	err := s.deviceRepo.Create(ctx, nil, &device)
	var duplicate domain.DuplicateDeviceError
	switch {
	case err == nil:
		s.log.Info("Device registered", "device_id", device.ID)
	case errors.As(err, &duplicate):
		stored, getErr := s.deviceRepo.GetByID(ctx, nil, deviceID)
		if getErr != nil {
			return nil, getErr
		}
		device = *stored
	default:
		return nil, err
	}

	experiments, err := s.experimentRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.DeviceExperiment, 0, len(experiments))
	for _, exp := range experiments {
		if !exp.AcceptsDevice(device) {
			continue
		}
		assignments = append(assignments, domain.DeviceExperiment{
			ExperimentID: exp.ID,
			Name:         exp.Name,
			Data:         exp.Variants.AssignVariant(device.ID.String()),
		})
	}
	return assignments, nil
}

// GetStatistics replays variant assignment for the whole device population
// over every experiment, finished ones included. Experiments are independent
// of each other and the computation only reads immutable snapshots, so it
// fans out across them.
func (s *experimentService) GetStatistics(ctx context.Context) ([]domain.StatisticsExperiment, error) {
	devices, err := s.deviceRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	experiments, err := s.experimentRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, err
	}

	statistics := make([]domain.StatisticsExperiment, len(experiments))
	g, _ := errgroup.WithContext(ctx)
	for i, exp := range experiments {
		g.Go(func() error {
			statistics[i] = domain.NewStatisticsExperiment(exp, devices)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return statistics, nil
}

func (s *experimentService) FinishExperiment(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	rows, err := s.experimentRepo.Finish(ctx, nil, id, time.Now().UTC())
	if err != nil {
		return uuid.Nil, err
	}
	if rows == 0 {
		exp, getErr := s.experimentRepo.GetByID(ctx, nil, id)
		if getErr != nil {
			return uuid.Nil, getErr
		}
		if exp.IsFinished() {
			return uuid.Nil, domain.ExperimentFinishedError{ID: id}
		}
		return uuid.Nil, fmt.Errorf("finish experiment %s: no rows updated", id)
	}
	s.log.Info("Experiment finished", "experiment_id", id)
	return id, nil
}
