package controller

import (
	"net/http"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/labstack/echo/v4"
)

// SolicitarCancelacion atiende POST /reservas/api/solicitar-cancelacion.
func (ct *Controller) SolicitarCancelacion(c echo.Context) error {
	var req solicitarRequest
	if err := c.Bind(&req); err != nil {
		return ct.responderError(c, model.NuevaValidacion("cuerpo inválido"))
	}

	sol, err := ct.solicitudes.SolicitarCancelacion(c.Request().Context(), req.IDReserva, req.Motivo)
	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"solicitud": aCancelacionDTO(sol)})
}

// SolicitarReprogramacion atiende POST /reservas/api/solicitar-reprogramacion.
func (ct *Controller) SolicitarReprogramacion(c echo.Context) error {
	var req solicitarRequest
	if err := c.Bind(&req); err != nil {
		return ct.responderError(c, model.NuevaValidacion("cuerpo inválido"))
	}

	sol, err := ct.solicitudes.SolicitarReprogramacion(c.Request().Context(), req.IDReserva, req.Motivo)
	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{"solicitud": aReprogramacionDTO(sol)})
}
