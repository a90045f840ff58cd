package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-kit/log/level"
	"github.com/gorilla/mux"

	"github.com/dictl-dev/dictl/internal/requests"
	"github.com/dictl-dev/dictl/internal/responses"
	"github.com/dictl-dev/dictl/internal/types"
	"github.com/dictl-dev/dictl/service/internal/store"
	"github.com/dictl-dev/dictl/service/internal/workrequest"
)

func validateWorkspace(body []byte) error {
	var cwr requests.CreateWorkspace
	if err := json.Unmarshal(body, &cwr); err != nil {
		return fmt.Errorf("invalid workspace: %w", err)
	}
	return cwr.Validate()
}

func (h handler) startWorkspace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[types.Workspace.KeyParam]
	l := h.requestLogger(r, "op", "start-workspace", "workspace", id)

	e, err := h.transition(r, types.Workspace.Collection, id, "STARTING", "STOPPED")
	if err != nil {
		h.storeError(w, l, err, "workspace "+id)
		return
	}

	wr := h.tracker.Start(workrequest.StartWorkspace, compartmentOf(e), types.Workspace.Name, id, h.settle(types.Workspace.Collection, id, "ACTIVE"))
	level.Debug(l).Log("message", "starting workspace", "work-request", wr.ID)
	w.Header().Set(responses.HeaderOpcWorkRequestID, wr.ID)
	w.WriteHeader(http.StatusAccepted)
}

func (h handler) stopWorkspace(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[types.Workspace.KeyParam]
	l := h.requestLogger(r, "op", "stop-workspace", "workspace", id)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidParameter, "unable to read request body")
		return
	}
	if len(body) > 0 {
		var swr requests.StopWorkspace
		if err := json.Unmarshal(body, &swr); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, "request body must be a JSON object")
			return
		}
		if err := swr.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
			return
		}
	}

	e, err := h.transition(r, types.Workspace.Collection, id, "STOPPING", "ACTIVE")
	if err != nil {
		h.storeError(w, l, err, "workspace "+id)
		return
	}

	wr := h.tracker.Start(workrequest.StopWorkspace, compartmentOf(e), types.Workspace.Name, id, h.settle(types.Workspace.Collection, id, "STOPPED"))
	level.Debug(l).Log("message", "stopping workspace", "work-request", wr.ID)
	w.Header().Set(responses.HeaderOpcWorkRequestID, wr.ID)
	w.WriteHeader(http.StatusAccepted)
}

// transition moves a workspace to state. When from is set the workspace must
// currently be in it.
func (h handler) transition(r *http.Request, coll, key, state, from string) (store.Entry, error) {
	return h.db.Update(r.Context(), coll, key, r.Header.Get(headerIfMatch), func(cur json.RawMessage) (json.RawMessage, error) {
		doc := mustDecode(cur)
		current, _ := doc["lifecycleState"].(string)
		if current == "DELETED" {
			return nil, store.ErrNotFound
		}
		if from != "" && current != from {
			return nil, fmt.Errorf("%w: workspace is %s, must be %s", errConflict, current, from)
		}
		doc["lifecycleState"] = state
		doc["timeUpdated"] = h.timestamp()
		return json.Marshal(doc)
	})
}

// settle returns the work request effect that moves a workspace to
// onSuccess, or FAILED.
func (h handler) settle(coll, key, onSuccess string) workrequest.Effect {
	return func(succeeded bool) {
		state := onSuccess
		if !succeeded {
			state = "FAILED"
		}
		_, err := h.db.Update(context.Background(), coll, key, "", func(cur json.RawMessage) (json.RawMessage, error) {
			doc := mustDecode(cur)
			doc["lifecycleState"] = state
			doc["timeUpdated"] = h.timestamp()
			return json.Marshal(doc)
		})
		if err != nil {
			level.Error(h.logger).Log("message", "unable to settle workspace", "workspace", key, "state", state, "error", err)
		}
	}
}

func (h handler) getWorkRequest(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)[types.WorkRequest.KeyParam]
	l := h.requestLogger(r, "op", "get-work-request", "work-request", id)

	wr, ok := h.tracker.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, codeNotFound, "work request "+id+" not found")
		return
	}
	level.Debug(l).Log("message", "polled work request", "status", wr.Status)
	writeJSON(w, http.StatusOK, wr)
}

func (h handler) listWorkRequests(w http.ResponseWriter, r *http.Request) {
	l := h.requestLogger(r, "op", "list-work-requests")
	q := r.URL.Query()

	f := workrequest.Filter{
		CompartmentID: q.Get("compartmentId"),
		ResourceID:    q.Get("workspaceId"),
		Status:        q.Get("workRequestStatus"),
	}
	if f.CompartmentID == "" {
		writeError(w, http.StatusBadRequest, codeMissingParameter, "compartmentId is required")
		return
	}

	wrs := h.tracker.List(f)
	level.Debug(l).Log("message", "listed work requests", "count", len(wrs))
	writeJSON(w, http.StatusOK, struct {
		Items []responses.WorkRequest `json:"items"`
	}{Items: wrs})
}

// seed loads the resources named in config.
func (h handler) seed(config Config) {
	ctx := context.Background()
	created := h.timestamp()

	put := func(coll, key string, doc document) {
		b, err := json.Marshal(doc)
		if err == nil {
			_, err = h.db.Create(ctx, coll, key, b)
		}
		if err != nil && !errors.Is(err, store.ErrExists) {
			level.Error(h.logger).Log("message", "unable to seed document", "collection", coll, "key", key, "error", err)
		}
	}

	for _, ws := range config.Workspaces {
		put(types.Workspace.Collection, ws.ID, document{
			"id":             ws.ID,
			"compartmentId":  ws.CompartmentID,
			"displayName":    ws.DisplayName,
			"lifecycleState": "ACTIVE",
			"timeCreated":    created,
		})
	}

	for _, s := range config.Schemas {
		vars := map[string]string{
			types.Workspace.KeyParam:  s.WorkspaceID,
			types.Connection.KeyParam: s.ConnectionKey,
			types.Schema.KeyParam:     s.Name,
		}
		schemas, err := types.Expand(types.Schema.Collection, vars)
		if err != nil {
			level.Error(h.logger).Log("message", "unable to seed schema", "schema", s.Name, "error", err)
			continue
		}
		put(schemas, s.Name, document{
			"key":          s.Name,
			"modelType":    "SCHEMA",
			"name":         s.Name,
			"resourceName": s.Name,
		})

		entities, _ := types.Expand(types.DataEntity.Collection, vars)
		for _, name := range s.DataEntities {
			put(entities, name, document{
				"key":          name,
				"modelType":    "TABLE_ENTITY",
				"entityType":   "TABLE",
				"name":         name,
				"resourceName": name,
			})
		}
	}
	level.Info(h.logger).Log("message", "seeded emulator", "workspaces", len(config.Workspaces), "schemas", len(config.Schemas))
}
