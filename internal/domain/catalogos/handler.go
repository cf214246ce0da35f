package catalogos

import (
	"net/http"

	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/catalogos/{catalogo}", listHandler(svc))
}

// @Summary Listar catálogo
// @Description Devuelve los valores de un catálogo (estatus-caso, estatus-muestra, tipos-muestra, especies, razas, pruebas, resultados, municipios, estados, tipos-usuario).
// @Tags catalogos
// @Produce json
// @Param catalogo path string true "Nombre del catálogo"
// @Success 200 {array} Item
// @Failure 404 {object} httpjson.Detail "Catálogo no encontrado"
// @Router /api/catalogos/{catalogo} [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), chi.URLParam(r, "catalogo"))
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		if items == nil {
			items = []Item{}
		}
		httpjson.WriteJSON(w, http.StatusOK, items)
	}
}
