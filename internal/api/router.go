package api

import (
	"net/http"

	_ "visitor-console/docs"
	"visitor-console/internal/api/handler"
	"visitor-console/internal/auth"
	"visitor-console/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"
)

// RegisterRoutes mounts the console API on r. Admin routes answer 401 until
// gate passes. swagger enables the /swagger/ UI.
func RegisterRoutes(r *router.Router, d *handler.Deps, gate auth.Gate, swagger bool) {
	admin := func(next router.HandlerFunc) router.HandlerFunc {
		return router.HandlerFunc(auth.Require(gate, http.HandlerFunc(next)))
	}

	r.GET("/api/v1/catalog", d.GetCatalog)

	r.POST("/api/v1/equipment-forms", d.StartEquipmentForm)
	// More specific routes first
	r.POST("/api/v1/equipment-forms/*/next", d.NextEquipmentForm)
	r.POST("/api/v1/equipment-forms/*/back", d.BackEquipmentForm)
	r.GET("/api/v1/equipment-forms/*", d.GetEquipmentForm)

	r.POST("/api/v1/registrations", d.RegisterUser)
	r.POST("/api/v1/visits", d.CheckIn)

	r.POST("/api/v1/auth/sign-in", d.SignIn)
	r.POST("/api/v1/auth/sign-out", d.SignOut)

	r.GET("/api/v1/admin/equipment", d.ListAdminEquipment, admin)
	r.GET("/api/v1/admin/equipment/*", d.GetUserEquipment, admin)
	r.PATCH("/api/v1/admin/equipment/*", d.PatchUserEquipment, admin)
	r.GET("/api/v1/admin/visits", d.ListAdminVisits, admin)
	r.GET("/api/v1/admin/visits/*", d.GetUserVisits, admin)
	r.POST("/api/v1/admin/refresh", d.RefreshAdmin, admin)
	r.POST("/api/v1/admin/qualifications/refresh", d.RefreshQualifications, admin)
	r.GET("/api/v1/admin/qualifications/*", d.GetQualifications, admin)

	if swagger {
		r.Mount("/swagger/", httpSwagger.WrapHandler)
	}
}
