package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/pkg/pagination"
	"github.com/labstack/echo/v4"
)

// filtroDesdeQuery arma el filtro del listado. Sin parámetro estado se
// listan solo las Pendientes (la cola de revisión); estado=Todas lo anula.
func filtroDesdeQuery(c echo.Context, tipo model.TipoSolicitud) (model.FiltroSolicitudes, error) {
	f := model.FiltroSolicitudes{
		Tipo:   tipo,
		Estado: model.SolicitudPendiente,
	}

	switch estado := c.QueryParam("estado"); estado {
	case "":
	case "Todas":
		f.Estado = ""
	default:
		f.Estado = model.EstadoSolicitud(estado)
	}

	if fecha := c.QueryParam("fecha"); fecha != "" {
		t, err := time.Parse(formatoFecha, fecha)
		if err != nil {
			return f, model.NuevaValidacion("fecha inválida: %s", fecha)
		}
		f.Fecha = &t
	}

	return f, nil
}

// ListarCancelaciones atiende GET /reservas/api/trabajador/solicitudes-cancelacion.
func (ct *Controller) ListarCancelaciones(c echo.Context) error {
	f, err := filtroDesdeQuery(c, model.TipoCancelacion)
	if err != nil {
		return ct.responderError(c, err)
	}

	solicitudes, err := ct.solicitudes.ListarSolicitudes(c.Request().Context(), f)
	if err != nil {
		return ct.responderError(c, err)
	}

	dtos := make([]solicitudCancelacionDTO, 0, len(solicitudes))
	for _, sol := range solicitudes {
		dtos = append(dtos, aCancelacionDTO(sol))
	}

	return c.JSON(http.StatusOK, echo.Map{"solicitudes": dtos})
}

// ProcesarCancelacion atiende POST /reservas/api/trabajador/procesar-cancelacion.
func (ct *Controller) ProcesarCancelacion(c echo.Context) error {
	var req procesarCancelacionRequest
	if err := c.Bind(&req); err != nil {
		return ct.responderError(c, model.NuevaValidacion("cuerpo inválido"))
	}

	var (
		sol *model.Solicitud
		err error
	)

	switch req.Accion {
	case string(model.SolicitudAprobada):
		sol, err = ct.solicitudes.AprobarCancelacion(c.Request().Context(), req.IDSolicitud, req.Respuesta)
	case string(model.SolicitudRechazada):
		sol, err = ct.solicitudes.RechazarSolicitud(c.Request().Context(), req.IDSolicitud, req.Respuesta)
	default:
		err = model.NuevaValidacion("acción inválida: %q", req.Accion)
	}

	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"solicitud": aCancelacionDTO(sol)})
}

// ListarReprogramaciones atiende GET /reservas/api/solicitudes-reprogramacion.
func (ct *Controller) ListarReprogramaciones(c echo.Context) error {
	f, err := filtroDesdeQuery(c, model.TipoReprogramacion)
	if err != nil {
		return ct.responderError(c, err)
	}

	solicitudes, err := ct.solicitudes.ListarSolicitudes(c.Request().Context(), f)
	if err != nil {
		return ct.responderError(c, err)
	}

	dtos := make([]solicitudReprogramacionDTO, 0, len(solicitudes))
	for _, sol := range solicitudes {
		dtos = append(dtos, aReprogramacionDTO(sol))
	}

	return c.JSON(http.StatusOK, echo.Map{"solicitudes": dtos})
}

// BuscarHorarios atiende GET /reservas/api/buscar-horarios-disponibles.
func (ct *Controller) BuscarHorarios(c echo.Context) error {
	var f model.FiltroDisponibilidad

	if fecha := c.QueryParam("fecha"); fecha != "" {
		t, err := time.Parse(formatoFecha, fecha)
		if err != nil {
			return ct.responderError(c, model.NuevaValidacion("fecha inválida: %s", fecha))
		}
		f.Fecha = &t
	}
	if empleado := c.QueryParam("empleado"); empleado != "" {
		id, err := strconv.ParseInt(empleado, 10, 64)
		if err != nil {
			return ct.responderError(c, model.NuevaValidacion("empleado inválido: %s", empleado))
		}
		f.EmpleadoID = &id
	}
	f.Especialidad = c.QueryParam("especialidad")

	pg := pagination.FromContext(c)

	horarios, total, err := ct.disponibilidad.BuscarHorarios(c.Request().Context(), f, pg.Limit, pg.Offset)
	if err != nil {
		return ct.responderError(c, err)
	}

	dtos := make([]horarioDTO, 0, len(horarios))
	for _, h := range horarios {
		dtos = append(dtos, aHorarioDTO(h))
	}

	return c.JSON(http.StatusOK, echo.Map{"horarios": dtos, "total": total})
}

// AprobarReprogramacion atiende POST /reservas/api/aprobar-reprogramacion.
func (ct *Controller) AprobarReprogramacion(c echo.Context) error {
	var req aprobarReprogramacionRequest
	if err := c.Bind(&req); err != nil {
		return ct.responderError(c, model.NuevaValidacion("cuerpo inválido"))
	}

	sol, err := ct.solicitudes.AprobarReprogramacion(c.Request().Context(), req.IDSolicitud, req.IDProgramacion, req.Respuesta)
	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"solicitud": aReprogramacionDTO(sol)})
}

// RechazarReprogramacion atiende POST /reservas/api/rechazar-reprogramacion.
func (ct *Controller) RechazarReprogramacion(c echo.Context) error {
	var req rechazarReprogramacionRequest
	if err := c.Bind(&req); err != nil {
		return ct.responderError(c, model.NuevaValidacion("cuerpo inválido"))
	}

	sol, err := ct.solicitudes.RechazarSolicitud(c.Request().Context(), req.IDSolicitud, req.Respuesta)
	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"solicitud": aReprogramacionDTO(sol)})
}

// Estadisticas atiende GET /reservas/api/estadisticas-reprogramacion.
func (ct *Controller) Estadisticas(c echo.Context) error {
	est, err := ct.solicitudes.Estadisticas(c.Request().Context())
	if err != nil {
		return ct.responderError(c, err)
	}

	return c.JSON(http.StatusOK, est)
}
