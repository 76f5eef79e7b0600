package handler

import "net/http"

// GetCatalog returns the option lists
// @Summary Option lists
// @Description Locations with their tools and printers, project types, survey answers and registration choices
// @Tags catalog
// @Produce json
// @Success 200 {object} catalog.Catalog
// @Router /catalog [get]
func (d *Deps) GetCatalog(w http.ResponseWriter, r *http.Request) {
	jsonOK(w, d.Catalog)
}
