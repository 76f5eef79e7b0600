package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"visitor-console/internal/catalog"
	"visitor-console/internal/client"
	"visitor-console/internal/form"
	"visitor-console/internal/model"
	"visitor-console/internal/store"
	"visitor-console/pkg/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, opts ...Option) (*router.Router, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "backend.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat, err := catalog.Default()
	require.NoError(t, err)

	r := router.New(nil)
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	NewServer(st, cat, zap.NewNop(), opts...).RegisterRoutes(r)
	return r, st
}

func call(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload string
	switch b := body.(type) {
	case nil:
	case string:
		payload = b
	default:
		data, _ := json.Marshal(b)
		payload = string(data)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorMsgOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["errorMsg"]
}

func fdmLog() map[string]any {
	return map[string]any{
		"user_id":        "jdoe",
		"timestamp":      "2026-10-01T10:00:00",
		"location":       "Watt Family Innovation Center",
		"project_name":   "Bracket",
		"project_type":   form.ProjectPersonal,
		"equipment_type": model.FDMPrinter,
		form.PrinterInfoKey: map[string]any{
			"printer_name":        "Mini 1",
			"print_duration":      "60",
			"print_status":        "in progress",
			"print_notes":         "",
			"print_mass_estimate": "12",
		},
	}
}

func TestCreateEquipment(t *testing.T) {
	r, st := newTestServer(t)

	rec := call(r, http.MethodPost, "/equipment", fdmLog())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = call(r, http.MethodPost, "/equipment", fdmLog())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "already exists")

	got, err := st.GetEquipment(context.Background(), "jdoe", "2026-10-01T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Bracket", got["project_name"])
}

func TestCreateEquipment_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"missing field", func(b map[string]any) { delete(b, "project_name") }, "Missing at least one field"},
		{"email user id", func(b map[string]any) { b["user_id"] = "jdoe@example.edu" }, "can't be an email"},
		{"unknown project type", func(b map[string]any) { b["project_type"] = "Hobby" }, "project_type Hobby"},
		{"unknown equipment type", func(b map[string]any) { b["equipment_type"] = "Lathe" }, "equipment_type Lathe"},
		{"class without class fields", func(b map[string]any) { b["project_type"] = form.ProjectClass }, "for a project_type value of 'Class'"},
		{"printer without printer_info", func(b map[string]any) { delete(b, form.PrinterInfoKey) }, "for a equipment_type value"},
		{"printer_info missing variant field", func(b map[string]any) {
			delete(b[form.PrinterInfoKey].(map[string]any), "print_mass_estimate")
		}, "'printer_info' object"},
		{"bad timestamp", func(b map[string]any) { b["timestamp"] = "2026-10-01 10:00" }, "Timestamp not in the approved format"},
		{"non-string field", func(b map[string]any) { b["user_id"] = 42 }, "user_id must be a string"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, _ := newTestServer(t)
			body := fdmLog()
			c.mutate(body)
			rec := call(r, http.MethodPost, "/equipment", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, errorMsgOf(t, rec), c.want)
		})
	}
}

func TestCreateEquipment_InvalidJSON(t *testing.T) {
	r, _ := newTestServer(t)
	rec := call(r, http.MethodPost, "/equipment", "{not json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body is not valid JSON.", errorMsgOf(t, rec))
}

func TestCreateEquipment_StripsDisallowedFields(t *testing.T) {
	r, st := newTestServer(t)
	body := fdmLog()
	body["equipment_type"] = "Laser Cutter/Engraver"
	body["class_number"] = "ABCD-1234"

	rec := call(r, http.MethodPost, "/equipment", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	got, err := st.GetEquipment(context.Background(), "jdoe", "2026-10-01T10:00:00")
	require.NoError(t, err)
	assert.NotContains(t, got, form.PrinterInfoKey)
	assert.NotContains(t, got, "class_number")
}

func TestListEquipment(t *testing.T) {
	r, _ := newTestServer(t)
	first, second := fdmLog(), fdmLog()
	second["timestamp"] = "2026-10-02T10:00:00"
	other := fdmLog()
	other["user_id"] = "asmith"
	for _, b := range []map[string]any{first, second, other} {
		require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/equipment", b).Code)
	}

	var all struct {
		EquipmentLogs []model.EquipmentLog `json:"equipment_logs"`
	}
	rec := call(r, http.MethodGet, "/equipment?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	assert.Len(t, all.EquipmentLogs, 2)

	var mine struct {
		EquipmentLogs []model.EquipmentLog `json:"equipment_logs"`
	}
	rec = call(r, http.MethodGet, "/equipment/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	require.Len(t, mine.EquipmentLogs, 2)
	assert.Equal(t, "2026-10-02T10:00:00", mine.EquipmentLogs[0].Timestamp)
	require.NotNil(t, mine.EquipmentLogs[0].PrinterInfo)
	assert.Equal(t, "Mini 1", mine.EquipmentLogs[0].PrinterInfo.PrinterName)
}

func TestPatchEquipment(t *testing.T) {
	r, st := newTestServer(t)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/equipment", fdmLog()).Code)

	rec := call(r, http.MethodPatch, "/equipment/jdoe", map[string]any{
		"timestamp":    "2026-10-01T10:00:00",
		"project_name": "Bigger Bracket",
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	got, err := st.GetEquipment(context.Background(), "jdoe", "2026-10-01T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Bigger Bracket", got["project_name"])
	assert.Equal(t, "jdoe", got["user_id"])
}

func TestPatchEquipment_LatestWhenNoTimestamp(t *testing.T) {
	r, st := newTestServer(t)
	later := fdmLog()
	later["timestamp"] = "2026-10-05T10:00:00"
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/equipment", fdmLog()).Code)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/equipment", later).Code)

	rec := call(r, http.MethodPatch, "/equipment/jdoe", map[string]any{"intern": "Drew"})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	got, err := st.GetEquipment(context.Background(), "jdoe", "2026-10-05T10:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Drew", got["intern"])
	earlier, err := st.GetEquipment(context.Background(), "jdoe", "2026-10-01T10:00:00")
	require.NoError(t, err)
	assert.NotContains(t, earlier, "intern")
}

func TestPatchEquipment_Rejects(t *testing.T) {
	r, _ := newTestServer(t)
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/equipment", fdmLog()).Code)

	rec := call(r, http.MethodPatch, "/equipment/jdoe", map[string]any{"user_id": "other"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "Updating the 'user_id' field is not allowed")

	rec = call(r, http.MethodPatch, "/equipment/ghost", map[string]any{"intern": "Drew"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "could not be found")

	rec = call(r, http.MethodPatch, "/equipment/jdoe", map[string]any{"project_type": form.ProjectClub})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "merged entry is re-validated")
}

func TestVisits(t *testing.T) {
	r, _ := newTestServer(t)
	v := model.Visit{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00", Location: "cooper"}
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/visits", v).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/visits", v).Code)

	bad := model.Visit{UserID: "jdoe", Timestamp: "2026-10-02T10:00:00", Location: "Moon Base"}
	rec := call(r, http.MethodPost, "/visits", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "Moon Base")

	var wrapped struct {
		Visits []model.Visit `json:"visits"`
	}
	rec = call(r, http.MethodGet, "/visits/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &wrapped))
	assert.Equal(t, []model.Visit{v}, wrapped.Visits)
}

func TestVisits_BareArray(t *testing.T) {
	r, _ := newTestServer(t, WithBareVisits())
	v := model.Visit{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00", Location: "Cooper Library"}
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/visits", v).Code)

	var bare []model.Visit
	rec := call(r, http.MethodGet, "/visits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bare))
	assert.Equal(t, []model.Visit{v}, bare)
}

func TestQualifications(t *testing.T) {
	r, _ := newTestServer(t)

	rec := call(r, http.MethodGet, "/qualifications/jdoe", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	q := model.Qualifications{
		UserID:    "jdoe",
		Trainings: []model.CompletableItem{{Name: "Laser Cutter", CompletionStatus: "Complete"}},
	}
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/qualifications", q).Code)

	var got model.Qualifications
	rec = call(r, http.MethodGet, "/qualifications/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2026-10-14T09:00:00", got.LastUpdated)
	assert.Equal(t, q.Trainings, got.Trainings)

	q.Waivers = []model.CompletableItem{{Name: "General", CompletionStatus: "Maybe"}}
	rec = call(r, http.MethodPost, "/qualifications", q)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "in waivers")
}

func TestRefreshTrainings(t *testing.T) {
	r, st := newTestServer(t)
	require.NoError(t, st.PutQualifications(context.Background(), model.Qualifications{UserID: "jdoe", LastUpdated: "2026-01-01T00:00:00"}))

	rec := call(r, http.MethodGet, "/tiger_training", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"updated":1}`, rec.Body.String())

	got, err := st.GetQualifications(context.Background(), "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "2026-10-14T09:00:00", got.LastUpdated)
}

func TestUsers(t *testing.T) {
	r, _ := newTestServer(t)
	reg := map[string]any{
		"user_id":             "jdoe",
		"university_status":   "Undergraduate",
		"undergraduate_class": "Junior",
		"major":               []string{"Computer Science"},
	}
	require.Equal(t, http.StatusCreated, call(r, http.MethodPost, "/users", reg).Code)

	rec := call(r, http.MethodPost, "/users", reg)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorMsgOf(t, rec), "already exists")

	rec = call(r, http.MethodGet, "/users/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"undergraduate_class":"Junior"`)

	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/users/ghost", nil).Code)
}

func TestAPIKey(t *testing.T) {
	r, _ := newTestServer(t, WithAPIKey("secret"))

	rec := call(r, http.MethodGet, "/equipment", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"Forbidden"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/equipment", nil)
	req.Header.Set("X-Api-Key", "secret")
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, req)
	assert.Equal(t, http.StatusOK, ok.Code)
}

// A payload built by the form controller is accepted by the backend as sent
// by the client.
func TestFormPayloadRoundTrip(t *testing.T) {
	r, st := newTestServer(t, WithAPIKey("secret"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	cat, err := catalog.Default()
	require.NoError(t, err)
	c := client.New(srv.URL, "secret", time.Second)
	ctrl := form.NewController(form.EquipmentForm(cat), c, form.WithClock(func() time.Time { return fixedNow }))

	ctx := context.Background()
	inputs := []model.FormRecord{
		{
			"user_id":             "jdoe",
			"location":            "Watt Family Innovation Center",
			"equipment_type":      model.FDMPrinter,
			"equipment_history":   "Yes",
			"printer_name":        "Mini 1",
			"print_duration":      "60",
			"print_mass_estimate": "12",
		},
		{
			"project_name":    "Capstone",
			"project_type":    form.ProjectClass,
			"class_number":    "ABCD-1234",
			"faculty_name":    "Dr. Smith",
			"project_sponsor": "Dept",
		},
		{"intern": "Drew", "satisfaction": "10", "difficulties": "No issues"},
	}
	var state form.State
	for _, in := range inputs {
		state, err = ctrl.Submit(ctx, in)
		require.NoError(t, err)
	}
	require.True(t, state.Submitted)

	logs, err := c.ListUserEquipment(ctx, "jdoe", 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2026-10-14T09:00:00", logs[0].Timestamp)
	assert.Equal(t, "ABCD-1234", logs[0].ClassNumber)
	require.NotNil(t, logs[0].PrinterInfo)
	assert.Equal(t, "in progress", logs[0].PrinterInfo.PrintStatus)

	logs[0].Intern = "Anna"
	require.NoError(t, c.PatchEquipment(ctx, logs[0]))
	got, err := st.GetEquipment(ctx, "jdoe", "2026-10-14T09:00:00")
	require.NoError(t, err)
	assert.Equal(t, "Anna", got["intern"])
}
