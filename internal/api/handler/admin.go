package handler

import (
	"context"
	"errors"
	"net/http"

	"visitor-console/internal/client"
	"visitor-console/internal/logcache"
	"visitor-console/internal/model"
	"visitor-console/pkg/router"
	"visitor-console/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

func (d *Deps) refreshEquipment(ctx context.Context) (logcache.Collection[model.EquipmentLog], error) {
	logs, err := d.Remote.ListEquipment(ctx, d.Limit)
	if err != nil {
		return d.Equipment.Snapshot(), err
	}
	return d.Equipment.Merge(logs), nil
}

func (d *Deps) refreshVisits(ctx context.Context) (logcache.Collection[model.Visit], error) {
	visits, err := d.Remote.ListVisits(ctx, d.Limit)
	if err != nil {
		return d.Visits.Snapshot(), err
	}
	return d.Visits.Merge(visits), nil
}

// ListAdminEquipment shows the cached equipment logs
// @Summary List equipment logs
// @Description List cached equipment logs, optionally re-fetching from the visitor API first. search matches user ids case-sensitively.
// @Tags admin
// @Produce json
// @Param refresh query bool false "Fetch before listing"
// @Param search query string false "User id substring"
// @Success 200 {object} map[string]interface{} "Equipment logs"
// @Failure 401 "Not signed in"
// @Router /admin/equipment [get]
func (d *Deps) ListAdminEquipment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := d.Equipment.Snapshot()
	if utils.ParseBool(q.Get("refresh")) {
		var err error
		if c, err = d.refreshEquipment(r.Context()); err != nil {
			d.Logger.Warn("equipment refresh failed", zap.Error(err))
		}
	}
	items := logcache.Filter(c, q.Get("search"), logcache.CaseSensitive)
	jsonOK(w, map[string]any{"equipment_logs": nonNil(items), "count": len(items)})
}

// GetUserEquipment fetches one user's equipment logs
// @Summary Fetch a user's equipment logs
// @Description Fetch a user's equipment logs from the visitor API and merge them into the cache
// @Tags admin
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{} "Equipment logs of the user"
// @Failure 401 "Not signed in"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /admin/equipment/{user_id} [get]
func (d *Deps) GetUserEquipment(w http.ResponseWriter, r *http.Request) {
	userID := router.Param(r, adminEquipmentPattern, 0)
	logs, err := d.Remote.ListUserEquipment(r.Context(), userID, d.Limit)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		d.fail(w, r, err)
		return
	}
	d.Equipment.Merge(logs)
	jsonOK(w, map[string]any{"equipment_logs": nonNil(logs), "count": len(logs)})
}

// PatchUserEquipment edits a cached equipment log
// @Summary Edit an equipment log
// @Description Replace the cached log with the same user id and timestamp, then send the edit to the visitor API. A failed send is reported but the local edit is kept.
// @Tags admin
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param log body model.EquipmentLog true "Edited log"
// @Success 200 {object} map[string]interface{} "Edited log and whether the remote accepted it"
// @Failure 400 {object} map[string]interface{} "Invalid JSON payload"
// @Failure 401 "Not signed in"
// @Failure 404 {object} map[string]interface{} "Log not in cache"
// @Router /admin/equipment/{user_id} [patch]
func (d *Deps) PatchUserEquipment(w http.ResponseWriter, r *http.Request) {
	var log model.EquipmentLog
	if err := decodeBody(r, &log); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	log.UserID = router.Param(r, adminEquipmentPattern, 0)
	if log.Timestamp == "" {
		jsonError(w, "timestamp is required", http.StatusBadRequest)
		return
	}

	if !d.Equipment.Edit(log) {
		jsonError(w, "Equipment log not found", http.StatusNotFound)
		return
	}

	synced := true
	if err := d.Remote.PatchEquipment(r.Context(), log); err != nil {
		synced = false
		d.Logger.Error("equipment edit not saved remotely",
			zap.String("user_id", log.UserID),
			zap.String("timestamp", log.Timestamp),
			zap.Error(err),
		)
	}
	jsonOK(w, map[string]any{"equipment_log": log, "synced": synced})
}

// ListAdminVisits shows the cached visits
// @Summary List visits
// @Description List cached visits, optionally re-fetching first. search matches user ids case-insensitively; location "All" or empty disables the location filter.
// @Tags admin
// @Produce json
// @Param refresh query bool false "Fetch before listing"
// @Param search query string false "User id substring"
// @Param location query string false "Location name"
// @Success 200 {object} map[string]interface{} "Visits"
// @Failure 401 "Not signed in"
// @Router /admin/visits [get]
func (d *Deps) ListAdminVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := d.Visits.Snapshot()
	if utils.ParseBool(q.Get("refresh")) {
		var err error
		if c, err = d.refreshVisits(r.Context()); err != nil {
			d.Logger.Warn("visit refresh failed", zap.Error(err))
		}
	}
	items := logcache.FilterVisits(c, q.Get("search"), q.Get("location"))
	jsonOK(w, map[string]any{"visits": nonNil(items), "count": len(items)})
}

// GetUserVisits fetches one user's visits
// @Summary Fetch a user's visits
// @Description Fetch a user's visits from the visitor API and merge them into the cache
// @Tags admin
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{} "Visits of the user"
// @Failure 401 "Not signed in"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /admin/visits/{user_id} [get]
func (d *Deps) GetUserVisits(w http.ResponseWriter, r *http.Request) {
	userID := router.Param(r, adminVisitsPattern, 0)
	visits, err := d.Remote.ListUserVisits(r.Context(), userID, d.Limit)
	if err != nil && !errors.Is(err, client.ErrNotFound) {
		d.fail(w, r, err)
		return
	}
	d.Visits.Merge(visits)
	jsonOK(w, map[string]any{"visits": nonNil(visits), "count": len(visits)})
}

// RefreshAdmin re-fetches equipment logs and visits concurrently
// @Summary Refresh caches
// @Description Fetch equipment logs and visits at the same time and merge both into the caches
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Cache sizes after the merge"
// @Failure 401 "Not signed in"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /admin/refresh [post]
func (d *Deps) RefreshAdmin(w http.ResponseWriter, r *http.Request) {
	g, ctx := errgroup.WithContext(r.Context())
	var equipment, visits int
	g.Go(func() error {
		c, err := d.refreshEquipment(ctx)
		equipment = c.Len()
		return err
	})
	g.Go(func() error {
		c, err := d.refreshVisits(ctx)
		visits = c.Len()
		return err
	})
	if err := g.Wait(); err != nil {
		d.fail(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"equipment_logs": equipment, "visits": visits})
}

// GetQualifications looks up a user's trainings and waivers
// @Summary Look up qualifications
// @Description Look up a user's qualifications. A user with no record yields found=false.
// @Tags admin
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{} "Lookup result"
// @Failure 401 "Not signed in"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /admin/qualifications/{user_id} [get]
func (d *Deps) GetQualifications(w http.ResponseWriter, r *http.Request) {
	userID := router.Param(r, qualificationsPattern, 0)
	q, err := d.Remote.GetQualifications(r.Context(), userID)
	if errors.Is(err, client.ErrNotFound) {
		jsonOK(w, map[string]any{"found": false, "user_id": userID})
		return
	}
	if err != nil {
		d.fail(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"found": true, "qualifications": q})
}

// RefreshQualifications asks the visitor API to re-sync trainings
// @Summary Refresh qualifications
// @Description Trigger the visitor API's qualifications refresh
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]interface{} "Refresh triggered"
// @Failure 401 "Not signed in"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /admin/qualifications/refresh [post]
func (d *Deps) RefreshQualifications(w http.ResponseWriter, r *http.Request) {
	if err := d.Remote.RefreshTrainings(r.Context()); err != nil {
		d.fail(w, r, err)
		return
	}
	jsonOK(w, map[string]any{"refreshed": true})
}
