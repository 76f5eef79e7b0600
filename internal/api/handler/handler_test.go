package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"visitor-console/internal/auth"
	"visitor-console/internal/catalog"
	"visitor-console/internal/client"
	"visitor-console/internal/form"
	"visitor-console/internal/logcache"
	"visitor-console/internal/model"
	"visitor-console/internal/session"
	"visitor-console/pkg/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 15, 0, time.UTC)

var errRemote = errors.New("connection refused")

type fakeRemote struct {
	mu sync.Mutex

	submitted []form.Payload
	patched   []model.EquipmentLog
	visits    []model.Visit
	users     []model.Registration
	refreshed int

	equipment     []model.EquipmentLog
	userEquipment map[string][]model.EquipmentLog
	allVisits     []model.Visit
	userVisits    map[string][]model.Visit
	quals         map[string]model.Qualifications

	submitErr error
	patchErr  error
	listErr   error
}

func (f *fakeRemote) SubmitEquipment(_ context.Context, p form.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, p)
	return nil
}

func (f *fakeRemote) ListEquipment(context.Context, int) ([]model.EquipmentLog, error) {
	return f.equipment, f.listErr
}

func (f *fakeRemote) ListUserEquipment(_ context.Context, userID string, _ int) ([]model.EquipmentLog, error) {
	return f.userEquipment[userID], f.listErr
}

func (f *fakeRemote) PatchEquipment(_ context.Context, log model.EquipmentLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patched = append(f.patched, log)
	return f.patchErr
}

func (f *fakeRemote) ListVisits(context.Context, int) ([]model.Visit, error) {
	return f.allVisits, f.listErr
}

func (f *fakeRemote) ListUserVisits(_ context.Context, userID string, _ int) ([]model.Visit, error) {
	return f.userVisits[userID], f.listErr
}

func (f *fakeRemote) SubmitVisit(_ context.Context, v model.Visit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits = append(f.visits, v)
	return nil
}

func (f *fakeRemote) GetQualifications(_ context.Context, userID string) (model.Qualifications, error) {
	q, ok := f.quals[userID]
	if !ok {
		return model.Qualifications{}, fmt.Errorf("GET /qualifications/%s: %w", userID, client.ErrNotFound)
	}
	return q, nil
}

func (f *fakeRemote) RefreshTrainings(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed++
	return nil
}

func (f *fakeRemote) RegisterUser(_ context.Context, reg model.Registration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users = append(f.users, reg)
	return nil
}

type testEnv struct {
	router *router.Router
	deps   *Deps
	remote *fakeRemote
	cookie *http.Cookie
}

func newTestEnv(t *testing.T, remote *fakeRemote) *testEnv {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)

	d := &Deps{
		Logger:    zap.NewNop(),
		Catalog:   cat,
		Form:      form.EquipmentForm(cat),
		Remote:    remote,
		Auth:      auth.New(auth.Credentials{Username: "admin", Password: "pw"}, time.Hour),
		Forms:     session.NewStore[*form.Controller](time.Hour),
		Equipment: &logcache.Cache[model.EquipmentLog]{},
		Visits:    &logcache.Cache[model.Visit]{},
		Limit:     50,
		Now:       func() time.Time { return fixedNow },
	}

	admin := func(next router.HandlerFunc) router.HandlerFunc {
		return router.HandlerFunc(auth.Require(d.Auth, http.HandlerFunc(next)))
	}
	r := router.New(nil)
	r.GET(BasePath+"/catalog", d.GetCatalog)
	r.POST(BasePath+"/equipment-forms", d.StartEquipmentForm)
	r.POST(formPattern+"/next", d.NextEquipmentForm)
	r.POST(formPattern+"/back", d.BackEquipmentForm)
	r.GET(formPattern, d.GetEquipmentForm)
	r.POST(BasePath+"/registrations", d.RegisterUser)
	r.POST(BasePath+"/visits", d.CheckIn)
	r.POST(BasePath+"/auth/sign-in", d.SignIn)
	r.POST(BasePath+"/auth/sign-out", d.SignOut)
	r.GET(BasePath+"/admin/equipment", d.ListAdminEquipment, admin)
	r.GET(adminEquipmentPattern, d.GetUserEquipment, admin)
	r.PATCH(adminEquipmentPattern, d.PatchUserEquipment, admin)
	r.GET(BasePath+"/admin/visits", d.ListAdminVisits, admin)
	r.GET(adminVisitsPattern, d.GetUserVisits, admin)
	r.POST(BasePath+"/admin/refresh", d.RefreshAdmin, admin)
	r.POST(BasePath+"/admin/qualifications/refresh", d.RefreshQualifications, admin)
	r.GET(qualificationsPattern, d.GetQualifications, admin)

	return &testEnv{router: r, deps: d, remote: remote}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload string
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = string(data)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(payload))
	if e.cookie != nil {
		req.AddCookie(e.cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	rec := e.do(t, http.MethodPost, BasePath+"/auth/sign-in", map[string]string{"username": "admin", "password": "pw"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			e.cookie = c
		}
	}
	require.NotNil(t, e.cookie)
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type formBody struct {
	ID    string `json:"id"`
	State struct {
		Stage     int               `json:"stage"`
		StageName string            `json:"stage_name"`
		Last      bool              `json:"last"`
		Submitted bool              `json:"submitted"`
		Values    map[string]string `json:"values"`
		Payload   map[string]any    `json:"payload"`
	} `json:"state"`
}

var initialInfo = map[string]string{
	"user_id":             "jdoe",
	"location":            "Watt Family Innovation Center",
	"equipment_type":      model.FDMPrinter,
	"equipment_history":   "No",
	"printer_name":        "Mini 1",
	"print_duration":      "60",
	"print_mass_estimate": "12",
}

func TestEquipmentFormFlow(t *testing.T) {
	env := newTestEnv(t, &fakeRemote{})

	rec := env.do(t, http.MethodPost, BasePath+"/equipment-forms", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	started := decodeJSON[formBody](t, rec)
	require.NotEmpty(t, started.ID)
	assert.Equal(t, "initial_info", started.State.StageName)
	formPath := BasePath + "/equipment-forms/" + started.ID

	rec = env.do(t, http.MethodPost, formPath+"/next", initialInfo)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeJSON[formBody](t, rec).State.Stage)

	rec = env.do(t, http.MethodPost, formPath+"/back", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	back := decodeJSON[formBody](t, rec)
	assert.Equal(t, 0, back.State.Stage)
	assert.Equal(t, "Mini 1", back.State.Values["printer_name"])

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, formPath+"/next", initialInfo).Code)
	rec = env.do(t, http.MethodPost, formPath+"/next", map[string]string{
		"project_name": "Bracket",
		"project_type": form.ProjectPersonal,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decodeJSON[formBody](t, rec).State.Last)

	rec = env.do(t, http.MethodPost, formPath+"/next", map[string]string{
		"intern":       "Drew",
		"satisfaction": "9",
		"difficulties": "No issues",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decodeJSON[formBody](t, rec)
	assert.True(t, done.State.Submitted)
	assert.Equal(t, "2026-10-14T09:30:15", done.State.Payload["timestamp"])

	require.Len(t, env.remote.submitted, 1)
	info, ok := env.remote.submitted[0].PrinterInfo()
	require.True(t, ok)
	assert.Equal(t, "Mini 1", info["printer_name"])

	rec = env.do(t, http.MethodPost, formPath+"/next", map[string]string{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodGet, formPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeJSON[formBody](t, rec).State.Submitted)
}

func TestEquipmentForm_FieldErrors(t *testing.T) {
	env := newTestEnv(t, &fakeRemote{})
	started := decodeJSON[formBody](t, env.do(t, http.MethodPost, BasePath+"/equipment-forms", nil))

	rec := env.do(t, http.MethodPost, BasePath+"/equipment-forms/"+started.ID+"/next", map[string]string{
		"user_id":        "jdoe",
		"location":       "Watt Family Innovation Center",
		"equipment_type": model.FDMPrinter,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeJSON[map[string]map[string]string](t, rec)
	assert.Contains(t, body["errors"], "printer_name")
	assert.Contains(t, body["errors"], "equipment_history")

	state := decodeJSON[formBody](t, env.do(t, http.MethodGet, BasePath+"/equipment-forms/"+started.ID, nil))
	assert.Equal(t, 0, state.State.Stage)
}

func TestEquipmentForm_SubmitFailure(t *testing.T) {
	remote := &fakeRemote{submitErr: errRemote}
	env := newTestEnv(t, remote)
	started := decodeJSON[formBody](t, env.do(t, http.MethodPost, BasePath+"/equipment-forms", nil))
	formPath := BasePath + "/equipment-forms/" + started.ID

	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, formPath+"/next", initialInfo).Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodPost, formPath+"/next", map[string]string{
		"project_name": "Bracket", "project_type": form.ProjectPersonal,
	}).Code)

	survey := map[string]string{"intern": "Drew", "satisfaction": "9", "difficulties": "No issues"}
	rec := env.do(t, http.MethodPost, formPath+"/next", survey)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"failed"}`, rec.Body.String())

	remote.submitErr = nil
	rec = env.do(t, http.MethodPost, formPath+"/next", survey)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeJSON[formBody](t, rec).State.Submitted)
}

func TestEquipmentForm_UnknownSession(t *testing.T) {
	env := newTestEnv(t, &fakeRemote{})
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, BasePath+"/equipment-forms/nope", nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodPost, BasePath+"/equipment-forms/nope/back", nil).Code)
}

func TestAdminRequiresSignIn(t *testing.T) {
	env := newTestEnv(t, &fakeRemote{})
	for _, path := range []string{"/admin/equipment", "/admin/visits", "/admin/qualifications/jdoe"} {
		rec := env.do(t, http.MethodGet, BasePath+path, nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
	}

	rec := env.do(t, http.MethodPost, BasePath+"/auth/sign-in", map[string]string{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	env.signIn(t)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, BasePath+"/admin/equipment", nil).Code)

	require.Equal(t, http.StatusNoContent, env.do(t, http.MethodPost, BasePath+"/auth/sign-out", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, BasePath+"/admin/equipment", nil).Code)
}

type equipmentBody struct {
	EquipmentLogs []model.EquipmentLog `json:"equipment_logs"`
	Count         int                  `json:"count"`
}

func TestAdminEquipment_RefreshSearchAndMerge(t *testing.T) {
	remote := &fakeRemote{
		equipment: []model.EquipmentLog{
			{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00", ProjectName: "Shelf"},
			{UserID: "asmith", Timestamp: "2026-10-02T10:00:00", ProjectName: "Box"},
		},
		userEquipment: map[string][]model.EquipmentLog{
			"jdoe": {{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00", ProjectName: "Bookshelf"}},
		},
	}
	env := newTestEnv(t, remote)
	env.signIn(t)

	empty := decodeJSON[equipmentBody](t, env.do(t, http.MethodGet, BasePath+"/admin/equipment", nil))
	assert.NotNil(t, empty.EquipmentLogs)
	assert.Zero(t, empty.Count)

	all := decodeJSON[equipmentBody](t, env.do(t, http.MethodGet, BasePath+"/admin/equipment?refresh=true", nil))
	assert.Equal(t, 2, all.Count)

	found := decodeJSON[equipmentBody](t, env.do(t, http.MethodGet, BasePath+"/admin/equipment?search=smi", nil))
	require.Len(t, found.EquipmentLogs, 1)
	assert.Equal(t, "asmith", found.EquipmentLogs[0].UserID)

	none := decodeJSON[equipmentBody](t, env.do(t, http.MethodGet, BasePath+"/admin/equipment?search=SMI", nil))
	assert.Empty(t, none.EquipmentLogs, "equipment search is case-sensitive")

	rec := env.do(t, http.MethodGet, BasePath+"/admin/equipment/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got, ok := env.deps.Equipment.Snapshot().Get(model.LogKey{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00"})
	require.True(t, ok)
	assert.Equal(t, "Bookshelf", got.ProjectName)
	assert.Equal(t, 2, env.deps.Equipment.Snapshot().Len())
}

func TestAdminEquipment_RefreshFailureKeepsCache(t *testing.T) {
	remote := &fakeRemote{equipment: []model.EquipmentLog{{UserID: "jdoe", Timestamp: "t1"}}}
	env := newTestEnv(t, remote)
	env.signIn(t)
	require.Equal(t, 1, decodeJSON[equipmentBody](t, env.do(t, http.MethodGet, BasePath+"/admin/equipment?refresh=1", nil)).Count)

	remote.listErr = errRemote
	rec := env.do(t, http.MethodGet, BasePath+"/admin/equipment?refresh=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeJSON[equipmentBody](t, rec).Count)

	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodGet, BasePath+"/admin/equipment/jdoe", nil).Code)
}

func TestAdminEquipment_PatchIsOptimistic(t *testing.T) {
	remote := &fakeRemote{equipment: []model.EquipmentLog{{UserID: "jdoe", Timestamp: "2026-10-01T10:00:00", ProjectName: "Shelf"}}}
	env := newTestEnv(t, remote)
	env.signIn(t)
	env.do(t, http.MethodGet, BasePath+"/admin/equipment?refresh=true", nil)

	edit := model.EquipmentLog{Timestamp: "2026-10-01T10:00:00", ProjectName: "Bookshelf"}
	rec := env.do(t, http.MethodPatch, BasePath+"/admin/equipment/jdoe", edit)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decodeJSON[map[string]any](t, rec)["synced"])
	require.Len(t, remote.patched, 1)
	assert.Equal(t, "jdoe", remote.patched[0].UserID)

	remote.patchErr = errRemote
	edit.ProjectName = "Cabinet"
	rec = env.do(t, http.MethodPatch, BasePath+"/admin/equipment/jdoe", edit)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeJSON[map[string]any](t, rec)["synced"])

	got, ok := env.deps.Equipment.Snapshot().Get(model.LogKey{UserID: "jdoe", Timestamp: edit.Timestamp})
	require.True(t, ok)
	assert.Equal(t, "Cabinet", got.ProjectName, "failed remote edit is not rolled back")

	rec = env.do(t, http.MethodPatch, BasePath+"/admin/equipment/ghost", edit)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = env.do(t, http.MethodPatch, BasePath+"/admin/equipment/jdoe", model.EquipmentLog{ProjectName: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

type visitsBody struct {
	Visits []model.Visit `json:"visits"`
	Count  int           `json:"count"`
}

func TestAdminVisits_FiltersAndConvergence(t *testing.T) {
	remote := &fakeRemote{
		allVisits: []model.Visit{
			{UserID: "JDoe", Timestamp: "t1", Location: "Cooper Library"},
			{UserID: "asmith", Timestamp: "t2", Location: "CU ICAR"},
		},
		userVisits: map[string][]model.Visit{
			"JDoe": {{UserID: "JDoe", Timestamp: "t1", Location: "Watt Family Innovation Center"}},
		},
	}
	env := newTestEnv(t, remote)
	env.signIn(t)

	all := decodeJSON[visitsBody](t, env.do(t, http.MethodGet, BasePath+"/admin/visits?refresh=true", nil))
	assert.Equal(t, 2, all.Count)

	byUser := decodeJSON[visitsBody](t, env.do(t, http.MethodGet, BasePath+"/admin/visits?search=jdoe", nil))
	require.Len(t, byUser.Visits, 1)

	byLoc := decodeJSON[visitsBody](t, env.do(t, http.MethodGet, BasePath+"/admin/visits?location=CU+ICAR", nil))
	require.Len(t, byLoc.Visits, 1)
	assert.Equal(t, "asmith", byLoc.Visits[0].UserID)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, BasePath+"/admin/visits/JDoe", nil).Code)
	got, ok := env.deps.Visits.Snapshot().Get(model.LogKey{UserID: "JDoe", Timestamp: "t1"})
	require.True(t, ok)
	assert.Equal(t, "Watt Family Innovation Center", got.Location, "the fetch merged last wins")
}

func TestAdminRefresh(t *testing.T) {
	remote := &fakeRemote{
		equipment: []model.EquipmentLog{{UserID: "jdoe", Timestamp: "t1"}},
		allVisits: []model.Visit{{UserID: "jdoe", Timestamp: "t1", Location: "Cooper Library"}, {UserID: "jdoe", Timestamp: "t2", Location: "Cooper Library"}},
	}
	env := newTestEnv(t, remote)
	env.signIn(t)

	rec := env.do(t, http.MethodPost, BasePath+"/admin/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"equipment_logs":1,"visits":2}`, rec.Body.String())

	remote.listErr = errRemote
	assert.Equal(t, http.StatusBadGateway, env.do(t, http.MethodPost, BasePath+"/admin/refresh", nil).Code)
}

func TestQualifications(t *testing.T) {
	remote := &fakeRemote{quals: map[string]model.Qualifications{
		"jdoe": {UserID: "jdoe", Trainings: []model.CompletableItem{{Name: "Laser Cutter", CompletionStatus: "Complete"}}},
	}}
	env := newTestEnv(t, remote)
	env.signIn(t)

	rec := env.do(t, http.MethodGet, BasePath+"/admin/qualifications/ghost", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"found":false,"user_id":"ghost"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, BasePath+"/admin/qualifications/jdoe", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON[map[string]any](t, rec)
	assert.Equal(t, true, body["found"])

	rec = env.do(t, http.MethodPost, BasePath+"/admin/qualifications/refresh", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, remote.refreshed)
}

func TestRegisterUser(t *testing.T) {
	remote := &fakeRemote{}
	env := newTestEnv(t, remote)

	rec := env.do(t, http.MethodPost, BasePath+"/registrations", map[string]any{
		"user_id":  "jdoe@example.edu",
		"gender":   "Other",
		"birthday": "2004-05-06",
		"position": "Graduate",
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	errs := decodeJSON[map[string]map[string]string](t, rec)["errors"]
	assert.Contains(t, errs, "user_id")
	assert.Contains(t, errs, "major")
	assert.Empty(t, remote.users)

	rec = env.do(t, http.MethodPost, BasePath+"/registrations", map[string]any{
		"user_id":  "jdoe",
		"gender":   "Other",
		"birthday": "2004-05-06",
		"position": "Faculty",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, remote.users, 1)
	assert.Equal(t, "Faculty", remote.users[0].UniversityStatus)
}

func TestCheckIn(t *testing.T) {
	remote := &fakeRemote{}
	env := newTestEnv(t, remote)

	rec := env.do(t, http.MethodPost, BasePath+"/visits", map[string]string{"user_id": "jdoe", "location": "Moon Base"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodPost, BasePath+"/visits", map[string]string{"user_id": "jdoe", "location": "Cooper Library"})
	require.Equal(t, http.StatusCreated, rec.Code)
	want := model.Visit{UserID: "jdoe", Timestamp: "2026-10-14T09:30:15", Location: "Cooper Library"}
	assert.Equal(t, []model.Visit{want}, remote.visits)
	_, ok := env.deps.Visits.Snapshot().Get(want.LogKey())
	assert.True(t, ok)
}

func TestGetCatalog(t *testing.T) {
	env := newTestEnv(t, &fakeRemote{})
	rec := env.do(t, http.MethodGet, BasePath+"/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decodeJSON[catalog.Catalog](t, rec)
	assert.Equal(t, env.deps.Catalog.LocationNames(), cat.LocationNames())
}
