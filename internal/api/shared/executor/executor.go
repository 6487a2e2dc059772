package executor

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/archtools/modelsync/internal/adapter"
	"github.com/archtools/modelsync/internal/api/shared/constants"
	"github.com/archtools/modelsync/internal/api/shared/dto"
	apierrors "github.com/archtools/modelsync/internal/api/shared/errors"
	"github.com/archtools/modelsync/internal/domain"
	"github.com/archtools/modelsync/internal/logger"
	"github.com/archtools/modelsync/internal/messaging"
	"github.com/archtools/modelsync/internal/store"
)

// Executor is the interface for the API executor
type Executor interface {
	// Push ingests a full tree snapshot for one project
	Push(ctx context.Context, req *dto.PushRequest) (*dto.PushResponse, error)

	// Export loads persisted project trees back out, depth-first
	Export(ctx context.Context, projectName string) (*dto.ExportResponse, error)

	// BindExternalIDs stamps external ids onto persisted rows
	BindExternalIDs(ctx context.Context, req *dto.BindExternalIDsRequest) (*dto.BindResponse, error)

	// DeleteByExternalID removes one bound entity and its descendants
	DeleteByExternalID(ctx context.Context, req *dto.DeletionRequest) (*dto.DeletionResponse, error)

	// GetAuditRecords lists recent audit rows, newest first
	GetAuditRecords(ctx context.Context, limit int) (*dto.AuditResponse, error)
}

type executor struct {
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock

	// projectLocks serializes pushes per project name so two concurrent
	// snapshots of the same project cannot interleave their category
	// replacement inside the store transaction window.
	projectLocks sync.Map
}

func NewExecutor(store store.Store, publisher messaging.Publisher, clock adapter.Clock) Executor {
	return &executor{store: store, publisher: publisher, clock: clock}
}

func (e *executor) Push(ctx context.Context, req *dto.PushRequest) (*dto.PushResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	input := req.ToStoreInput()
	input.OpID = e.newOpID()
	input.Now = e.clock.Now()

	unlock := e.lockProject(input.Project)
	summary, err := e.store.SyncProjectTree(ctx, input)
	unlock()
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to sync project tree: %v", err))
	}

	e.publishChange(ctx, &domain.ChangeEvent{
		OpID:      summary.OpID,
		Op:        domain.ChangeOpPush,
		Project:   summary.Project,
		Timestamp: summary.SyncedAt,
	})

	return &dto.PushResponse{Status: "ok", Summary: summary}, nil
}

func (e *executor) Export(ctx context.Context, projectName string) (*dto.ExportResponse, error) {
	projects, err := e.store.GetProjectTrees(ctx, projectName)
	if err != nil {
		if errors.Is(err, domain.ErrProjectNotFound) {
			return nil, apierrors.NewNotFoundError(fmt.Sprintf("Project %q not found", projectName))
		}
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to load project trees: %v", err))
	}

	exports := make([]dto.ProjectExport, 0, len(projects))
	for _, project := range projects {
		exports = append(exports, dto.MapProjectToExport(project))
	}

	return &dto.ExportResponse{Status: "ok", Projects: exports}, nil
}

func (e *executor) BindExternalIDs(ctx context.Context, req *dto.BindExternalIDsRequest) (*dto.BindResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	updated, err := e.store.BindExternalIDs(ctx, req.ToStoreBindings())
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to bind external ids: %v", err))
	}

	return &dto.BindResponse{Status: "ok", Updated: updated}, nil
}

func (e *executor) DeleteByExternalID(ctx context.Context, req *dto.DeletionRequest) (*dto.DeletionResponse, error) {
	input, err := req.ToStoreInput()
	if err != nil {
		return nil, err
	}
	if input.Actor == "" {
		input.Actor = constants.UNKNOWN_ACTOR
	}
	input.OpID = e.newOpID()
	input.Now = e.clock.Now()

	result, err := e.store.DeleteByExternalID(ctx, input)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to delete entity: %v", err))
	}

	if result.Deleted {
		externalID := input.ExternalID
		kind := input.Kind
		e.publishChange(ctx, &domain.ChangeEvent{
			OpID:       input.OpID,
			Op:         domain.ChangeOpDelete,
			Project:    result.Project,
			EntityKind: &kind,
			ExternalID: &externalID,
			Timestamp:  input.Now,
		})
	}

	return &dto.DeletionResponse{Status: "ok", Deleted: result.Deleted}, nil
}

func (e *executor) GetAuditRecords(ctx context.Context, limit int) (*dto.AuditResponse, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_AUDIT_LIMIT
	}

	records, err := e.store.GetAuditRecords(ctx, limit)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list audit records: %v", err))
	}

	views := make([]dto.AuditRecordView, 0, len(records))
	for _, record := range records {
		views = append(views, dto.MapAuditRecordToView(record))
	}

	return &dto.AuditResponse{Status: "ok", Records: views}, nil
}

// publishChange fans the event out without ever failing the caller. The
// store is the source of truth; a dropped event only delays downstream
// listeners until the next poll.
func (e *executor) publishChange(ctx context.Context, event *domain.ChangeEvent) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishChange(ctx, event); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to publish change event: %w", err),
			zap.String("op_id", event.OpID),
			zap.String("op", string(event.Op)),
			zap.String("project", event.Project))
	}
}

func (e *executor) lockProject(name string) func() {
	value, _ := e.projectLocks.LoadOrStore(name, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (e *executor) newOpID() string {
	return ulid.MustNew(ulid.Timestamp(e.clock.Now()), rand.Reader).String()
}
