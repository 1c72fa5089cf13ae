package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/consuelo/flowbridge/pkg/events"
	"github.com/consuelo/flowbridge/pkg/models"
	"github.com/consuelo/flowbridge/pkg/n8n"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func credentialEngine() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/credentials", func(w http.ResponseWriter, r *http.Request) {
		var credential n8n.Credential
		_ = json.NewDecoder(r.Body).Decode(&credential)
		credential.ID = "cred-1"
		credential.CreatedAt = time.Now().UTC()
		credential.UpdatedAt = credential.CreatedAt
		// Secrets are write-only.
		credential.Data = nil

		_ = json.NewEncoder(w).Encode(credential)
	})

	mux.HandleFunc("DELETE /api/v1/credentials/{id}", func(w http.ResponseWriter, r *http.Request) {})

	return mux
}

func TestCreateConnection(t *testing.T) {
	automation, bus := newTestAutomation(t, credentialEngine())

	connection, err := automation.CreateConnection(context.Background(), CreateConnectionData{
		Name: "Ops SMTP",
		Type: "smtp",
		Data: map[string]any{"host": "mail.example.com", "password": "secret"},
	})
	require.NoError(t, err)

	assert.Equal(t, "cred-1", connection.ID)
	assert.Equal(t, "Ops SMTP", connection.DisplayName)
	assert.Equal(t, "smtp", connection.PieceName)
	assert.Equal(t, models.ConnectionScopeProject, connection.Scope)
	assert.Equal(t, models.ConnectionStatusActive, connection.Status)
	assert.Equal(t, []string{DefaultProjectID}, connection.ProjectIDs)

	assert.Equal(t, []events.EventType{events.ConnectionCreatedEvent}, bus.types())
}

func TestCreateConnection_Validation(t *testing.T) {
	automation, _ := newTestAutomation(t, credentialEngine())

	_, err := automation.CreateConnection(context.Background(), CreateConnectionData{Type: "smtp"})
	assert.ErrorIs(t, err, ErrConnectionNameNeeded)

	_, err = automation.CreateConnection(context.Background(), CreateConnectionData{Name: "x"})
	assert.ErrorIs(t, err, ErrConnectionNameNeeded)
}

func TestDeleteConnection(t *testing.T) {
	automation, bus := newTestAutomation(t, credentialEngine())

	require.NoError(t, automation.DeleteConnection(context.Background(), "cred-1"))
	assert.Equal(t, []events.EventType{events.ConnectionDeletedEvent}, bus.types())
}

func tagEngine() http.Handler {
	mux := http.NewServeMux()

	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	tags := []n8n.Tag{
		{ID: "tag-1", Name: "billing", CreatedAt: &created, UpdatedAt: &created},
		{ID: "tag-2", Name: "ops"},
	}

	mux.HandleFunc("POST /api/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		_ = json.NewEncoder(w).Encode(n8n.Tag{ID: "tag-3", Name: body["name"]})
	})

	mux.HandleFunc("GET /api/v1/tags", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(n8n.Page[n8n.Tag]{Data: tags})
	})

	mux.HandleFunc("GET /api/v1/tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, tag := range tags {
			if tag.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(tag)

				return
			}
		}

		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("PUT /api/v1/tags/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)

		_ = json.NewEncoder(w).Encode(n8n.Tag{ID: r.PathValue("id"), Name: body["name"]})
	})

	mux.HandleFunc("DELETE /api/v1/tags/{id}", func(w http.ResponseWriter, r *http.Request) {})

	return mux
}

func TestCreateFolder(t *testing.T) {
	automation, bus := newTestAutomation(t, tagEngine())

	folder, err := automation.CreateFolder(context.Background(), "marketing")
	require.NoError(t, err)

	assert.Equal(t, "tag-3", folder.ID)
	assert.Equal(t, "marketing", folder.DisplayName)
	assert.Equal(t, DefaultProjectID, folder.ProjectID)

	assert.Equal(t, []events.EventType{events.FolderCreatedEvent}, bus.types())
}

func TestCreateFolder_NameRequired(t *testing.T) {
	automation, _ := newTestAutomation(t, tagEngine())

	_, err := automation.CreateFolder(context.Background(), "")
	assert.ErrorIs(t, err, ErrFolderNameRequired)
}

func TestListFolders(t *testing.T) {
	automation, _ := newTestAutomation(t, tagEngine())

	page, err := automation.ListFolders(context.Background())
	require.NoError(t, err)

	require.Len(t, page.Data, 2)
	assert.Equal(t, "billing", page.Data[0].DisplayName)
	assert.Equal(t, 0, page.Data[0].DisplayOrder)
	assert.Equal(t, 1, page.Data[1].DisplayOrder)
}

func TestGetFolder(t *testing.T) {
	automation, _ := newTestAutomation(t, tagEngine())

	folder, err := automation.GetFolder(context.Background(), "tag-1")
	require.NoError(t, err)

	assert.Equal(t, "billing", folder.DisplayName)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), folder.Created)
}

func TestGetFolder_MissingTimestampsDefaultToNow(t *testing.T) {
	automation, _ := newTestAutomation(t, tagEngine())

	before := time.Now().UTC()

	folder, err := automation.GetFolder(context.Background(), "tag-2")
	require.NoError(t, err)

	assert.False(t, folder.Created.Before(before))
}

func TestUpdateFolder(t *testing.T) {
	automation, bus := newTestAutomation(t, tagEngine())

	folder, err := automation.UpdateFolder(context.Background(), "tag-1", "finance")
	require.NoError(t, err)

	assert.Equal(t, "finance", folder.DisplayName)
	assert.Equal(t, []events.EventType{events.FolderUpdatedEvent}, bus.types())

	_, err = automation.UpdateFolder(context.Background(), "tag-1", "")
	assert.ErrorIs(t, err, ErrFolderNameRequired)
}

func TestDeleteFolder(t *testing.T) {
	automation, bus := newTestAutomation(t, tagEngine())

	require.NoError(t, automation.DeleteFolder(context.Background(), "tag-1"))
	assert.Equal(t, []events.EventType{events.FolderDeletedEvent}, bus.types())
}
