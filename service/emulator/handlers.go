package emulator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dictl-dev/dictl/internal/responses"
	"github.com/dictl-dev/dictl/internal/types"
	"github.com/dictl-dev/dictl/service/internal/store"
	"github.com/dictl-dev/dictl/service/internal/workrequest"
)

// Service error codes.
const (
	codeNotFound           = "NotAuthorizedOrNotFound"
	codeInvalidParameter   = "InvalidParameter"
	codeMissingParameter   = "MissingParameter"
	codeConflict           = "Conflict"
	codePreconditionFailed = "PreconditionFailed"
	codeInternal           = "InternalServerError"
)

const headerIfMatch = "if-match"

var (
	errConflict = errors.New("conflict")
	errInvalid  = errors.New("invalid request")
)

type document map[string]interface{}

// HTTP handler
type handler struct {
	logger   log.Logger
	db       store.Client
	tracker  *workrequest.Tracker
	now      func() time.Time
	requests requestCounter
}

// Service HealthCheck
func (h handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	l := h.requestLogger(r, "op", "health-check")

	w.Header().Set("Content-Type", "text/plain")
	if err := h.db.Health(r.Context()); err != nil {
		level.Error(l).Log("message", "store health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprintln(w, "Health check failed")
		return
	}
	fmt.Fprintln(w, "Health check succeeded")
}

func (h handler) list(res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := h.requestLogger(r, "op", "list", "resource", res.Name)
		vars := mux.Vars(r)

		if !h.parentExists(w, r, res, vars) {
			return
		}

		coll, err := types.Expand(res.Collection, vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeMissingParameter, err.Error())
			return
		}

		entries, err := h.db.List(r.Context(), coll)
		if err != nil {
			h.storeError(w, l, err, res.Name)
			return
		}

		q := r.URL.Query()
		items, err := filterAndSort(entries, q)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
			return
		}

		page, next, err := paginate(items, q.Get("limit"), q.Get("page"))
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
			return
		}
		if next != "" {
			w.Header().Set(responses.HeaderOpcNextPage, next)
		}

		level.Debug(l).Log("message", "listed documents", "collection", coll, "count", len(page))
		writeJSON(w, http.StatusOK, responses.List{Items: page})
	}
}

func (h handler) get(res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		key := vars[res.KeyParam]
		l := h.requestLogger(r, "op", "get", "resource", res.Name, "key", key)

		coll, err := types.Expand(res.Collection, vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeMissingParameter, err.Error())
			return
		}

		e, err := h.db.Get(r.Context(), coll, key)
		if err != nil {
			h.storeError(w, l, err, res.Name+" "+key)
			return
		}
		writeEntry(w, http.StatusOK, e)
	}
}

func (h handler) create(res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := h.requestLogger(r, "op", "create", "resource", res.Name)
		vars := mux.Vars(r)

		if !h.parentExists(w, r, res, vars) {
			return
		}

		coll, err := types.Expand(res.Collection, vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeMissingParameter, err.Error())
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, "unable to read request body")
			return
		}
		doc, err := decodeObject(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
			return
		}

		if res.Name == types.Workspace.Name {
			if err := validateWorkspace(body); err != nil {
				writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
				return
			}
		}

		key, _ := doc[res.KeyField].(string)
		if strings.TrimSpace(key) == "" {
			key = newKey(res)
		}
		doc[res.KeyField] = key
		doc["timeCreated"] = h.timestamp()
		if res.Async {
			doc["lifecycleState"] = "CREATING"
		} else {
			doc["objectVersion"] = 1
		}

		b, err := json.Marshal(doc)
		if err != nil {
			h.storeError(w, l, err, res.Name)
			return
		}

		e, err := h.db.Create(r.Context(), coll, key, b)
		if err != nil {
			h.storeError(w, l, err, res.Name+" "+key)
			return
		}
		level.Debug(l).Log("message", "created document", "collection", coll, "key", key)

		if res.Async {
			compartmentID, _ := doc["compartmentId"].(string)
			wr := h.tracker.Start(workrequest.CreateWorkspace, compartmentID, res.Name, key, h.settle(coll, key, "ACTIVE"))
			w.Header().Set(responses.HeaderOpcWorkRequestID, wr.ID)
			writeEntry(w, http.StatusAccepted, e)
			return
		}
		writeEntry(w, http.StatusOK, e)
	}
}

func (h handler) update(res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		key := vars[res.KeyParam]
		l := h.requestLogger(r, "op", "update", "resource", res.Name, "key", key)

		coll, err := types.Expand(res.Collection, vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeMissingParameter, err.Error())
			return
		}

		patch, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, "unable to read request body")
			return
		}
		patchDoc, err := decodeObject(patch)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
			return
		}

		e, err := h.db.Update(r.Context(), coll, key, r.Header.Get(headerIfMatch), func(cur json.RawMessage) (json.RawMessage, error) {
			var current int64
			if !res.Async {
				current, _ = objectVersion(mustDecode(cur))
				if sent, ok := objectVersion(patchDoc); ok && sent != current {
					return nil, fmt.Errorf("%w: objectVersion %d does not match current version %d", errConflict, sent, current)
				}
			}

			merged, err := jsonpatch.MergePatch(cur, patch)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", errInvalid, err)
			}
			doc, err := decodeObject(merged)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", errInvalid, err)
			}

			doc[res.KeyField] = key
			doc["timeUpdated"] = h.timestamp()
			if res.Async {
				doc["lifecycleState"] = "UPDATING"
			} else {
				doc["objectVersion"] = current + 1
			}
			return json.Marshal(doc)
		})
		if err != nil {
			h.storeError(w, l, err, res.Name+" "+key)
			return
		}
		level.Debug(l).Log("message", "updated document", "collection", coll, "key", key, "etag", e.ETag)

		if res.Async {
			wr := h.tracker.Start(workrequest.UpdateWorkspace, compartmentOf(e), res.Name, key, h.settle(coll, key, "ACTIVE"))
			w.Header().Set(responses.HeaderOpcWorkRequestID, wr.ID)
			writeEntry(w, http.StatusAccepted, e)
			return
		}
		writeEntry(w, http.StatusOK, e)
	}
}

func (h handler) delete(res types.Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		key := vars[res.KeyParam]
		l := h.requestLogger(r, "op", "delete", "resource", res.Name, "key", key)

		coll, err := types.Expand(res.Collection, vars)
		if err != nil {
			writeError(w, http.StatusBadRequest, codeMissingParameter, err.Error())
			return
		}

		if res.Async {
			e, err := h.transition(r, coll, key, "DELETING", "")
			if err != nil {
				h.storeError(w, l, err, res.Name+" "+key)
				return
			}
			wr := h.tracker.Start(workrequest.DeleteWorkspace, compartmentOf(e), res.Name, key, h.settle(coll, key, "DELETED"))
			w.Header().Set(responses.HeaderOpcWorkRequestID, wr.ID)
			w.WriteHeader(http.StatusAccepted)
			return
		}

		if err := h.db.Delete(r.Context(), coll, key, r.Header.Get(headerIfMatch)); err != nil {
			h.storeError(w, l, err, res.Name+" "+key)
			return
		}
		level.Debug(l).Log("message", "deleted document", "collection", coll, "key", key)
		w.WriteHeader(http.StatusNoContent)
	}
}

// parentExists writes a 404 and returns false when res lives under a
// workspace that does not exist.
func (h handler) parentExists(w http.ResponseWriter, r *http.Request, res types.Resource, vars map[string]string) bool {
	id, ok := vars[types.Workspace.KeyParam]
	if !ok || res.Name == types.Workspace.Name {
		return true
	}

	e, err := h.db.Get(r.Context(), types.Workspace.Collection, id)
	if err == nil && lifecycleOf(e) != "DELETED" {
		return true
	}
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		h.storeError(w, h.requestLogger(r), err, "workspace "+id)
		return false
	}
	writeError(w, http.StatusNotFound, codeNotFound, "workspace "+id+" not found")
	return false
}

// storeError maps err to a service error response.
func (h handler) storeError(w http.ResponseWriter, l log.Logger, err error, what string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, what+" not found")
	case errors.Is(err, store.ErrExists):
		writeError(w, http.StatusConflict, codeConflict, what+" already exists")
	case errors.Is(err, store.ErrPreconditionFailed):
		writeError(w, http.StatusPreconditionFailed, codePreconditionFailed, "if-match does not match the current etag of "+what)
	case errors.Is(err, errConflict):
		writeError(w, http.StatusConflict, codeConflict, err.Error())
	case errors.Is(err, errInvalid):
		writeError(w, http.StatusBadRequest, codeInvalidParameter, err.Error())
	default:
		level.Error(l).Log("message", "unexpected store failure", "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}

func (h handler) requestLogger(r *http.Request, fields ...interface{}) log.Logger {
	return log.With(
		h.logger,
		append([]interface{}{responses.HeaderOpcRequestID, r.Header.Get(responses.HeaderOpcRequestID)}, fields...)...,
	)
}

func (h handler) timestamp() string {
	return h.now().UTC().Format(time.RFC3339Nano)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, responses.ServiceError{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	w.Write(b) //nolint:errcheck
}

func writeEntry(w http.ResponseWriter, status int, e store.Entry) {
	w.Header().Set(responses.HeaderETag, e.ETag)
	w.WriteHeader(status)
	w.Write(e.Doc) //nolint:errcheck
}

func decodeObject(b []byte) (document, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc document
	if err := dec.Decode(&doc); err != nil || doc == nil {
		return nil, errors.New("request body must be a JSON object")
	}
	return doc, nil
}

// mustDecode decodes a stored document, which is always an object.
func mustDecode(b []byte) document {
	doc, err := decodeObject(b)
	if err != nil {
		return document{}
	}
	return doc
}

func objectVersion(doc document) (int64, bool) {
	n, ok := doc["objectVersion"].(json.Number)
	if !ok {
		return 0, false
	}
	v, err := n.Int64()
	return v, err == nil
}

func lifecycleOf(e store.Entry) string {
	s, _ := mustDecode(e.Doc)["lifecycleState"].(string)
	return s
}

func compartmentOf(e store.Entry) string {
	s, _ := mustDecode(e.Doc)["compartmentId"].(string)
	return s
}

func newKey(res types.Resource) string {
	if res.Name == types.Workspace.Name {
		return "ocid1.disworkspace.oc1.." + strings.ReplaceAll(uuid.NewString(), "-", "")
	}
	return uuid.NewString()
}

// Query parameters that never filter a list.
var listControls = map[string]bool{
	"limit":     true,
	"page":      true,
	"sortBy":    true,
	"sortOrder": true,
	"fields":    true,
}

// filterAndSort keeps the entries whose string fields equal every filter
// parameter in q, sorted by sortBy when given.
func filterAndSort(entries []store.Entry, q map[string][]string) ([]json.RawMessage, error) {
	type item struct {
		doc document
		raw json.RawMessage
	}

	var kept []item
	for _, e := range entries {
		doc := mustDecode(e.Doc)
		match := true
		for name, values := range q {
			if listControls[name] || len(values) == 0 || values[0] == "" {
				continue
			}
			v, ok := doc[name].(string)
			if !ok || !strings.EqualFold(v, values[0]) {
				match = false
				break
			}
		}
		if match {
			kept = append(kept, item{doc: doc, raw: e.Doc})
		}
	}

	sortBy := first(q["sortBy"])
	sortOrder := strings.ToUpper(first(q["sortOrder"]))
	if sortOrder != "" && sortOrder != "ASC" && sortOrder != "DESC" {
		return nil, fmt.Errorf("sortOrder must be ASC or DESC, got %q", sortOrder)
	}
	if sortBy != "" {
		sort.SliceStable(kept, func(i, j int) bool {
			a, b := fmt.Sprint(kept[i].doc[sortBy]), fmt.Sprint(kept[j].doc[sortBy])
			if sortOrder == "DESC" {
				return a > b
			}
			return a < b
		})
	}

	out := make([]json.RawMessage, 0, len(kept))
	for _, it := range kept {
		out = append(out, it.raw)
	}
	return out, nil
}

// paginate returns one page of items. page is the offset handed out as
// opc-next-page by the previous call.
func paginate(items []json.RawMessage, limit, page string) ([]json.RawMessage, string, error) {
	offset := 0
	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 0 {
			return nil, "", fmt.Errorf("invalid page %q", page)
		}
		offset = n
	}
	if offset > len(items) {
		offset = len(items)
	}

	size := len(items) - offset
	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			return nil, "", fmt.Errorf("invalid limit %q", limit)
		}
		if n < size {
			size = n
		}
	}

	end := offset + size
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	}
	return items[offset:end], next, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
