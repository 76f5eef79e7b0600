package handler

import (
	"net/http"

	"visitor-console/internal/form"
	"visitor-console/internal/model"
	"visitor-console/pkg/router"

	"go.uber.org/zap"
)

type formResponse struct {
	ID    string     `json:"id"`
	State form.State `json:"state"`
}

func (d *Deps) lookupForm(w http.ResponseWriter, r *http.Request) (string, *form.Controller, bool) {
	id := router.Param(r, formPattern, 0)
	ctrl, ok := d.Forms.Get(id)
	if !ok {
		jsonError(w, "Form session not found", http.StatusNotFound)
		return "", nil, false
	}
	return id, ctrl, true
}

// StartEquipmentForm opens a new equipment usage form session
// @Summary Start an equipment form
// @Description Create a form session at the first stage with an empty accumulator
// @Tags equipment-forms
// @Produce json
// @Success 201 {object} map[string]interface{} "Form session and its first stage"
// @Router /equipment-forms [post]
func (d *Deps) StartEquipmentForm(w http.ResponseWriter, r *http.Request) {
	ctrl := form.NewController(d.Form, d.Remote, form.WithClock(d.now))
	id := d.Forms.Create(ctrl)
	d.Logger.Debug("form session started", zap.String("form_id", id))
	jsonStatus(w, http.StatusCreated, formResponse{ID: id, State: ctrl.State()})
}

// GetEquipmentForm returns the current stage of a form session
// @Summary Get form state
// @Description Get the current stage, entered values and active schema of a form session
// @Tags equipment-forms
// @Produce json
// @Param id path string true "Form session ID"
// @Success 200 {object} map[string]interface{} "Form state"
// @Failure 404 {object} map[string]interface{} "Form session not found"
// @Router /equipment-forms/{id} [get]
func (d *Deps) GetEquipmentForm(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := d.lookupForm(w, r)
	if !ok {
		return
	}
	jsonOK(w, formResponse{ID: id, State: ctrl.State()})
}

// NextEquipmentForm validates the current stage and moves forward
// @Summary Submit a stage
// @Description Validate the stage's fields against the active schema and advance. On the last stage the form is submitted to the visitor API.
// @Tags equipment-forms
// @Accept json
// @Produce json
// @Param id path string true "Form session ID"
// @Param fields body map[string]string true "Field values of the current stage"
// @Success 200 {object} map[string]interface{} "New form state"
// @Failure 400 {object} map[string]interface{} "Invalid JSON payload"
// @Failure 404 {object} map[string]interface{} "Form session not found"
// @Failure 409 {object} map[string]interface{} "Form already submitted"
// @Failure 422 {object} map[string]interface{} "Field errors"
// @Failure 502 {object} map[string]interface{} "Submission failed"
// @Router /equipment-forms/{id}/next [post]
func (d *Deps) NextEquipmentForm(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := d.lookupForm(w, r)
	if !ok {
		return
	}

	var input model.FormRecord
	if err := decodeBody(r, &input); err != nil {
		jsonError(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	st, err := ctrl.Submit(r.Context(), input)
	if err != nil {
		d.fail(w, r, err)
		return
	}
	if st.Submitted {
		d.Logger.Info("equipment log submitted",
			zap.String("form_id", id),
			zap.Any("user_id", st.Payload["user_id"]),
			zap.Any("timestamp", st.Payload["timestamp"]),
		)
	}
	jsonOK(w, formResponse{ID: id, State: st})
}

// BackEquipmentForm returns to the previous stage
// @Summary Go back a stage
// @Description Move to the previous stage keeping every value entered so far
// @Tags equipment-forms
// @Produce json
// @Param id path string true "Form session ID"
// @Success 200 {object} map[string]interface{} "New form state"
// @Failure 404 {object} map[string]interface{} "Form session not found"
// @Router /equipment-forms/{id}/back [post]
func (d *Deps) BackEquipmentForm(w http.ResponseWriter, r *http.Request) {
	id, ctrl, ok := d.lookupForm(w, r)
	if !ok {
		return
	}
	jsonOK(w, formResponse{ID: id, State: ctrl.Back()})
}
