package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/rs/zerolog"

	"faceswap-api/config"
	"faceswap-api/constant"
	"faceswap-api/dto"
	"faceswap-api/entities"
	"faceswap-api/ledger"
	"faceswap-api/pkg/rabbitmq"
	"faceswap-api/repository"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrBillingVerification = errors.New("billing verification failed")
	ErrEngineFailed        = errors.New("processing failed")
)

// SwapRequest is one incoming swap, as handed over by the HTTP layer.
type SwapRequest struct {
	UserID     string
	Source     io.Reader
	SourceName string
	Target     io.Reader
	TargetName string
	Options    Options
}

type Orchestrator interface {
	Run(ctx context.Context, req SwapRequest) (*Job, error)
}

type orchestrator struct {
	cfg       *config.Config
	estimator *Estimator
	gateway   ledger.Gateway
	slot      *Slot
	engine    Engine
	repo      repository.BillingRepository
	events    rabbitmq.Publisher
}

func NewOrchestrator(
	cfg *config.Config,
	estimator *Estimator,
	gateway ledger.Gateway,
	slot *Slot,
	engine Engine,
	repo repository.BillingRepository,
	events rabbitmq.Publisher,
) Orchestrator {
	return &orchestrator{
		cfg:       cfg,
		estimator: estimator,
		gateway:   gateway,
		slot:      slot,
		engine:    engine,
		repo:      repo,
		events:    events,
	}
}

// Run drives one job from intake to response: persist uploads, price the job,
// verify credits, run the engine under the slot, then debit. The credit check
// happens strictly before slot acquisition so an underfunded request never
// occupies the engine.
//
// Known gap: balance checks of concurrent requests are not serialized against
// each other, only engine invocations are. Two requests from one account can
// both pass verification against the same pre-debit balance. Closing that
// requires a reservation on the ledger side.
func (o *orchestrator) Run(ctx context.Context, req SwapRequest) (job *Job, err error) {
	job = NewJob(req.UserID, req.SourceName, req.TargetName, o.cfg.App.UploadDir, o.cfg.App.OutputDir, req.Options)

	logger := zerolog.Ctx(ctx).With().Str("job_id", job.ID.String()).Str("user_id", job.UserID).Logger()
	ctx = logger.WithContext(ctx)
	logger.Info().Msg("processing swap job")

	reclaimer := NewReclaimer()
	defer func() {
		if err != nil {
			job.advance(constant.JobStatusFailed)
			logger.Error().Err(err).Str("status", job.Status.String()).Msg("swap job failed")
		}
		reclaimer.Cleanup(ctx, job.Status == constant.JobStatusSucceeded)
	}()

	if err = o.intake(job, req, reclaimer); err != nil {
		return job, err
	}
	job.advance(constant.JobStatusUploaded)

	job.MediaKind, job.ResourceType, job.Cost = o.estimator.Estimate(ctx, job.TargetPath)
	job.advance(constant.JobStatusCostEstimated)
	logger.Info().Str("media_kind", string(job.MediaKind)).Int64("cost", job.Cost).Msg("estimated job cost")

	balance, balErr := o.gateway.GetBalance(ctx, job.UserID)
	if balErr != nil {
		err = errors.Join(ErrBillingVerification, balErr)
		return job, err
	}
	if balance < job.Cost {
		err = fmt.Errorf("%w: balance %d, cost %d", ErrInsufficientCredits, balance, job.Cost)
		return job, err
	}
	job.advance(constant.JobStatusCreditVerified)

	job.advance(constant.JobStatusProcessing)
	o.slot.Acquire()
	engineErr := func() error {
		defer o.slot.Release()
		return o.engine.Swap(ctx, SwapSpec{
			SourcePath: job.SourcePath,
			TargetPath: job.TargetPath,
			OutputPath: job.OutputPath,
			Options:    job.Options,
		})
	}()
	if engineErr != nil {
		err = errors.Join(ErrEngineFailed, engineErr)
		return job, err
	}
	// The engine returning cleanly is not enough, the output has to exist.
	if _, statErr := os.Stat(job.OutputPath); statErr != nil {
		err = fmt.Errorf("%w: engine produced no output", ErrEngineFailed)
		return job, err
	}

	job.advance(constant.JobStatusSucceeded)
	o.settle(ctx, job)

	logger.Info().Msg("swap job completed")
	return job, nil
}

func (o *orchestrator) intake(job *Job, req SwapRequest, reclaimer *Reclaimer) error {
	if err := os.MkdirAll(o.cfg.App.UploadDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.MkdirAll(o.cfg.App.OutputDir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	reclaimer.Register(job.SourcePath)
	if err := saveArtifact(job.SourcePath, req.Source); err != nil {
		return fmt.Errorf("failed to persist source artifact: %w", err)
	}

	reclaimer.Register(job.TargetPath)
	if err := saveArtifact(job.TargetPath, req.Target); err != nil {
		return fmt.Errorf("failed to persist target artifact: %w", err)
	}

	reclaimer.RegisterOutput(job.OutputPath)
	return nil
}

// settle runs the post-success steps: debit, usage record, archival and the
// completion event. The output has already been delivered, so nothing here
// may fail the job; every error is logged and swallowed.
func (o *orchestrator) settle(ctx context.Context, job *Job) {
	debited := true
	if err := o.gateway.Debit(ctx, job.UserID, job.Cost, job.ResourceType, job.ID.String()); err != nil {
		debited = false
		zerolog.Ctx(ctx).Error().Err(err).Int64("amount", job.Cost).Msg("debit failed after delivery")
		if o.repo != nil {
			failure := &entities.DebitFailure{
				JobId:        job.ID,
				UserId:       job.UserID,
				Amount:       job.Cost,
				ResourceType: job.ResourceType,
				Reason:       err.Error(),
			}
			if recordErr := o.repo.RecordDebitFailure(ctx, failure); recordErr != nil {
				zerolog.Ctx(ctx).Error().Err(recordErr).Msg("failed to record debit failure")
			}
		}
	}

	if o.repo != nil {
		record := &entities.UsageRecord{
			JobId:        job.ID,
			UserId:       job.UserID,
			Amount:       job.Cost,
			ResourceType: job.ResourceType,
			Debited:      debited,
		}
		if err := o.repo.RecordUsage(ctx, record); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to record usage")
		}
	}

	objectName := ""
	if o.cfg.Storage != nil {
		objectName = path.Join("swaps", filepath.Base(job.OutputPath))
		_, err := o.cfg.Storage.FPutObject(ctx, o.cfg.OutputBucket, objectName, job.OutputPath, minio.PutObjectOptions{})
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("object", objectName).Msg("failed to archive output")
			objectName = ""
		}
	}

	if o.events != nil {
		message := dto.SwapCompletedMessage{
			JobId:        job.ID,
			UserId:       job.UserID,
			ResourceType: job.ResourceType,
			Cost:         job.Cost,
			OutputObject: objectName,
		}
		if err := o.events.PublishSwapCompleted(ctx, message); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("failed to publish completion event")
		}
	}
}

func saveArtifact(dst string, src io.Reader) error {
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}
