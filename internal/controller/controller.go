package controller

import (
	"errors"
	"net/http"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/service"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Controller expone el flujo de solicitudes por REST, preservando el
// contrato JSON que consumen las páginas del frente.
type Controller struct {
	solicitudes    *service.SolicitudService
	disponibilidad *service.DisponibilidadService
	logger         *zap.Logger
}

func NewController(
	solicitudes *service.SolicitudService,
	disponibilidad *service.DisponibilidadService,
	logger *zap.Logger,
) *Controller {
	return &Controller{
		solicitudes:    solicitudes,
		disponibilidad: disponibilidad,
		logger:         logger,
	}
}

func (ct *Controller) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/reservas/api")

	// Lado paciente
	api.POST("/solicitar-cancelacion", ct.SolicitarCancelacion)
	api.POST("/solicitar-reprogramacion", ct.SolicitarReprogramacion)

	// Lado trabajador
	api.GET("/solicitudes-reprogramacion", ct.ListarReprogramaciones)
	api.GET("/buscar-horarios-disponibles", ct.BuscarHorarios)
	api.POST("/aprobar-reprogramacion", ct.AprobarReprogramacion)
	api.POST("/rechazar-reprogramacion", ct.RechazarReprogramacion)
	api.GET("/estadisticas-reprogramacion", ct.Estadisticas)

	trabajador := api.Group("/trabajador")
	trabajador.GET("/solicitudes-cancelacion", ct.ListarCancelaciones)
	trabajador.POST("/procesar-cancelacion", ct.ProcesarCancelacion)
}

// responderError traduce la taxonomía de errores del dominio a HTTP:
// validación 400, no encontrado 404, conflicto 409, el resto 500.
func (ct *Controller) responderError(c echo.Context, err error) error {
	var status int
	mensaje := err.Error()

	switch {
	case model.EsValidacion(err):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNoEncontrado):
		status = http.StatusNotFound
	case model.EsConflicto(err):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		mensaje = "error interno del servidor"
		ct.logger.Error("Error no manejado",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
	}

	return c.JSON(status, echo.Map{"error": mensaje})
}
