package services

import (
	"context"
	"time"

	"github.com/consuelo/flowbridge/pkg/events"
	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/consuelo/flowbridge/pkg/otelhelper"
	"go.opentelemetry.io/otel/attribute"
)

// CreateConnectionData is the inbound payload for creating a credential.
type CreateConnectionData struct {
	Name string         `json:"name" validate:"required"`
	Type string         `json:"type" validate:"required"`
	Data map[string]any `json:"data"`
}

// CreateConnection stores a credential on the engine and mirrors it as a
// connection. The secret payload is write-only: the engine never returns it.
func (a *Automation) CreateConnection(ctx context.Context, data CreateConnectionData) (*models.Connection, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.create_connection")
	defer span.End()

	if data.Name == "" || data.Type == "" {
		return nil, ErrConnectionNameNeeded
	}

	credential, err := a.engine.CreateCredential(ctx, &n8n.Credential{
		Name: data.Name,
		Type: data.Type,
		Data: data.Data,
	})
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	connection := &models.Connection{
		ID:          credential.ID,
		Created:     credential.CreatedAt,
		Updated:     credential.UpdatedAt,
		ExternalID:  credential.ID,
		DisplayName: credential.Name,
		Type:        credential.Type,
		PieceName:   credential.Type,
		ProjectIDs:  []string{a.projectID},
		Scope:       models.ConnectionScopeProject,
		Status:      models.ConnectionStatusActive,
	}

	a.publish(ctx, connection.ID, events.ConnectionCreated{
		BaseEvent:    events.NewBaseEvent(events.ConnectionCreatedEvent, ""),
		ConnectionID: connection.ID,
		PieceName:    connection.PieceName,
	})

	return connection, nil
}

// ListConnections always returns an empty page. The engine exposes no
// credential listing endpoint for security reasons; this is a documented
// capability gap, and callers must not read the empty result as "zero
// credentials exist".
func (a *Automation) ListConnections(ctx context.Context) (*models.Page[*models.Connection], error) {
	_, span := otelhelper.StartSpan(ctx, a.tracer, "automation.list_connections")
	defer span.End()

	return &models.Page[*models.Connection]{
		Data:       []*models.Connection{},
		NextCursor: nil,
	}, nil
}

// DeleteConnection removes a credential from the engine.
func (a *Automation) DeleteConnection(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.delete_connection")
	defer span.End()

	if err := a.engine.DeleteCredential(ctx, id); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	a.publish(ctx, id, events.ConnectionDeleted{
		BaseEvent:    events.NewBaseEvent(events.ConnectionDeletedEvent, ""),
		ConnectionID: id,
	})

	return nil
}

// ==================== Folders (engine tags) ====================

func (a *Automation) toFolder(tag *n8n.Tag, displayOrder int) *models.Folder {
	now := time.Now().UTC()

	created := now
	if tag.CreatedAt != nil {
		created = *tag.CreatedAt
	}

	updated := now
	if tag.UpdatedAt != nil {
		updated = *tag.UpdatedAt
	}

	return &models.Folder{
		ID:           tag.ID,
		Created:      created,
		Updated:      updated,
		ProjectID:    a.projectID,
		DisplayName:  tag.Name,
		DisplayOrder: displayOrder,
	}
}

// CreateFolder creates a grouping folder, backed by an engine tag.
func (a *Automation) CreateFolder(ctx context.Context, displayName string) (*models.Folder, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.create_folder")
	defer span.End()

	if displayName == "" {
		return nil, ErrFolderNameRequired
	}

	tag, err := a.engine.CreateTag(ctx, displayName)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	folder := a.toFolder(tag, 0)

	a.publish(ctx, folder.ID, events.FolderCreated{
		BaseEvent:   events.NewBaseEvent(events.FolderCreatedEvent, ""),
		FolderID:    folder.ID,
		DisplayName: folder.DisplayName,
	})

	return folder, nil
}

// ListFolders lists every folder. DisplayOrder is the listing position.
func (a *Automation) ListFolders(ctx context.Context) (*models.Page[*models.Folder], error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.list_folders")
	defer span.End()

	page, err := a.engine.ListTags(ctx)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	folders := make([]*models.Folder, 0, len(page.Data))
	for i := range page.Data {
		folders = append(folders, a.toFolder(&page.Data[i], i))
	}

	return &models.Page[*models.Folder]{
		Data:       folders,
		NextCursor: cursorOrNil(page.NextCursor),
	}, nil
}

// GetFolder fetches one folder by ID.
func (a *Automation) GetFolder(ctx context.Context, id string) (*models.Folder, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.get_folder",
		attribute.String(otelhelper.FolderIDKey, id))
	defer span.End()

	tag, err := a.engine.GetTag(ctx, id)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	return a.toFolder(tag, 0), nil
}

// UpdateFolder renames a folder.
func (a *Automation) UpdateFolder(ctx context.Context, id, displayName string) (*models.Folder, error) {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.update_folder",
		attribute.String(otelhelper.FolderIDKey, id))
	defer span.End()

	if displayName == "" {
		return nil, ErrFolderNameRequired
	}

	tag, err := a.engine.UpdateTag(ctx, id, displayName)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, err
	}

	folder := a.toFolder(tag, 0)

	a.publish(ctx, folder.ID, events.FolderUpdated{
		BaseEvent:   events.NewBaseEvent(events.FolderUpdatedEvent, ""),
		FolderID:    folder.ID,
		DisplayName: folder.DisplayName,
	})

	return folder, nil
}

// DeleteFolder removes a folder. Flows keep running; they only lose the
// grouping.
func (a *Automation) DeleteFolder(ctx context.Context, id string) error {
	ctx, span := otelhelper.StartSpan(ctx, a.tracer, "automation.delete_folder",
		attribute.String(otelhelper.FolderIDKey, id))
	defer span.End()

	if err := a.engine.DeleteTag(ctx, id); err != nil {
		otelhelper.SetError(span, err)

		return err
	}

	a.publish(ctx, id, events.FolderDeleted{
		BaseEvent: events.NewBaseEvent(events.FolderDeletedEvent, ""),
		FolderID:  id,
	})

	return nil
}
