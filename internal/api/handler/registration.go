package handler

import (
	"net/http"
	"strings"

	"visitor-console/internal/model"
	"visitor-console/internal/registration"

	"go.uber.org/zap"
)

// RegisterUser validates the new-user form and forwards it
// @Summary Register a user
// @Description Validate the registration form against the option lists and post it to the visitor API
// @Tags registrations
// @Accept json
// @Produce json
// @Param registration body registration.Input true "Registration form"
// @Success 201 {object} model.Registration "Registration sent"
// @Failure 400 {object} map[string]interface{} "Invalid JSON payload"
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /registrations [post]
func (d *Deps) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in registration.Input
	if err := decodeBody(r, &in); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	reg, err := registration.Validate(d.Catalog, in, d.now())
	if err != nil {
		d.fail(w, r, err)
		return
	}
	if err := d.Remote.RegisterUser(r.Context(), reg); err != nil {
		d.fail(w, r, err)
		return
	}
	d.Logger.Info("user registered", zap.String("user_id", reg.UserID), zap.String("position", reg.UniversityStatus))
	jsonStatus(w, http.StatusCreated, reg)
}

type checkInRequest struct {
	UserID   string `json:"user_id"`
	Location string `json:"location"`
}

// CheckIn records a visit stamped with the current time
// @Summary Record a visit
// @Description Record that a user is visiting a location now
// @Tags visits
// @Accept json
// @Produce json
// @Param visit body checkInRequest true "User and location"
// @Success 201 {object} model.Visit "Visit recorded"
// @Failure 400 {object} map[string]interface{} "Invalid JSON payload"
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Failure 502 {object} map[string]interface{} "Visitor API failed"
// @Router /visits [post]
func (d *Deps) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeBody(r, &req); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	errs := map[string]string{}
	userID := strings.TrimSpace(req.UserID)
	switch {
	case userID == "":
		errs["user_id"] = "user_id is a required field"
	case strings.Contains(userID, "@"):
		errs["user_id"] = "user_id can't be an email"
	}
	if _, ok := d.Catalog.Location(req.Location); !ok {
		errs["location"] = "location must be one of the facility locations"
	}
	if len(errs) > 0 {
		jsonStatus(w, http.StatusUnprocessableEntity, map[string]any{"errors": errs})
		return
	}

	v := model.Visit{
		UserID:    userID,
		Timestamp: d.now().UTC().Format(model.TimestampLayout),
		Location:  req.Location,
	}
	if err := d.Remote.SubmitVisit(r.Context(), v); err != nil {
		d.fail(w, r, err)
		return
	}
	d.Visits.Merge([]model.Visit{v})
	jsonStatus(w, http.StatusCreated, v)
}
