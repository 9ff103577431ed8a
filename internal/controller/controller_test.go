package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"time"

	"testing"

	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/model"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/notifier"
	"github.com/DKarelly/Proyecto-Ingenieria-y-calidad-sub000/internal/service"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Fakes mínimos de los almacenes, suficientes para ejercitar los handlers
// con los servicios reales.

type reservasFake struct {
	reservas map[int64]*model.Reserva
}

func (f *reservasFake) GetByID(_ context.Context, id int64) (*model.Reserva, error) {
	return f.reservas[id], nil
}

type programacionesFake struct {
	programaciones map[int64]*model.Programacion
}

func (f *programacionesFake) GetByID(_ context.Context, id int64) (*model.Programacion, error) {
	return f.programaciones[id], nil
}

func (f *programacionesFake) BuscarDisponibles(_ context.Context, filtro model.FiltroDisponibilidad, limit, offset int) ([]*model.Programacion, int, error) {
	var todas []*model.Programacion
	for _, p := range f.programaciones {
		if !p.EstaDisponible() || !p.Inicio.After(time.Now()) {
			continue
		}
		if filtro.EmpleadoID != nil && p.EmpleadoID != *filtro.EmpleadoID {
			continue
		}
		todas = append(todas, p)
	}
	sort.Slice(todas, func(i, j int) bool { return todas[i].Inicio.Before(todas[j].Inicio) })

	total := len(todas)
	if offset >= total {
		return nil, total, nil
	}
	fin := offset + limit
	if fin > total {
		fin = total
	}
	return todas[offset:fin], total, nil
}

type solicitudesFake struct {
	seq            int64
	solicitudes    map[int64]*model.Solicitud
	reservas       *reservasFake
	programaciones *programacionesFake
}

func (f *solicitudesFake) Crear(_ context.Context, sol *model.Solicitud) error {
	for _, s := range f.solicitudes {
		if s.ReservaID == sol.ReservaID && s.EsPendiente() {
			return model.NuevoConflicto("la reserva %d ya tiene una solicitud activa", sol.ReservaID)
		}
	}
	f.seq++
	sol.ID = f.seq
	sol.CreatedAt = time.Now()
	f.solicitudes[sol.ID] = sol
	if sol.Tipo == model.TipoCancelacion {
		if r := f.reservas.reservas[sol.ReservaID]; r != nil {
			r.EstadoCancelacion = model.CancelacionSolicitada
		}
	}
	return nil
}

// GetByID devuelve copias, como hace el repositorio real al escanear filas.
func (f *solicitudesFake) GetByID(_ context.Context, id int64) (*model.Solicitud, error) {
	sol := f.solicitudes[id]
	if sol == nil {
		return nil, nil
	}

	copia := *sol
	if r := f.reservas.reservas[sol.ReservaID]; r != nil {
		reserva := *r
		copia.Reserva = &reserva
	}
	return &copia, nil
}

func (f *solicitudesFake) Listar(_ context.Context, filtro model.FiltroSolicitudes) ([]*model.Solicitud, error) {
	var resultado []*model.Solicitud
	for _, s := range f.solicitudes {
		if filtro.Tipo != "" && s.Tipo != filtro.Tipo {
			continue
		}
		if filtro.Estado != "" && s.Estado != filtro.Estado {
			continue
		}
		s.Reserva = f.reservas.reservas[s.ReservaID]
		resultado = append(resultado, s)
	}
	sort.Slice(resultado, func(i, j int) bool {
		return resultado[i].CreatedAt.After(resultado[j].CreatedAt)
	})
	return resultado, nil
}

func (f *solicitudesFake) TieneActiva(_ context.Context, reservaID int64) (bool, error) {
	for _, s := range f.solicitudes {
		if s.ReservaID == reservaID && s.EsPendiente() {
			return true, nil
		}
	}
	return false, nil
}

func (f *solicitudesFake) pendiente(id int64) (*model.Solicitud, error) {
	sol := f.solicitudes[id]
	if sol == nil || !sol.EsPendiente() {
		return nil, model.NuevoConflicto("la solicitud %d ya fue resuelta", id)
	}
	return sol, nil
}

func (f *solicitudesFake) resolver(sol *model.Solicitud, estado model.EstadoSolicitud, respuesta string) {
	ahora := time.Now()
	sol.Estado = estado
	sol.Respuesta = &respuesta
	sol.ResolvedAt = &ahora
}

func (f *solicitudesFake) AprobarCancelacion(_ context.Context, id int64, respuesta string) error {
	sol, err := f.pendiente(id)
	if err != nil {
		return err
	}
	f.resolver(sol, model.SolicitudAprobada, respuesta)
	reserva := f.reservas.reservas[sol.ReservaID]
	reserva.Estado = model.ReservaCancelada
	reserva.EstadoCancelacion = model.CancelacionCancelada
	if p := f.programaciones.programaciones[reserva.ProgramacionID]; p != nil {
		p.Estado = model.ProgramacionDisponible
	}
	return nil
}

func (f *solicitudesFake) AprobarReprogramacion(_ context.Context, id, programacionID int64, respuesta string) error {
	sol, err := f.pendiente(id)
	if err != nil {
		return err
	}
	nueva := f.programaciones.programaciones[programacionID]
	if nueva == nil || !nueva.EstaDisponible() {
		return model.NuevoConflicto("el horario %d ya no está disponible", programacionID)
	}
	f.resolver(sol, model.SolicitudAprobada, respuesta)
	sol.NuevaProgramacionID = &programacionID
	reserva := f.reservas.reservas[sol.ReservaID]
	if anterior := f.programaciones.programaciones[reserva.ProgramacionID]; anterior != nil {
		anterior.Estado = model.ProgramacionDisponible
	}
	nueva.Estado = model.ProgramacionOcupado
	reserva.ProgramacionID = programacionID
	reserva.Programacion = nueva
	reserva.NumReprogramaciones++
	return nil
}

func (f *solicitudesFake) Rechazar(_ context.Context, id int64, respuesta string) error {
	sol, err := f.pendiente(id)
	if err != nil {
		return err
	}
	f.resolver(sol, model.SolicitudRechazada, respuesta)
	if sol.Tipo == model.TipoCancelacion {
		if r := f.reservas.reservas[sol.ReservaID]; r != nil {
			r.EstadoCancelacion = model.CancelacionNinguna
		}
	}
	return nil
}

func (f *solicitudesFake) CountPendientes(_ context.Context, tipo model.TipoSolicitud) (int, error) {
	count := 0
	for _, s := range f.solicitudes {
		if s.Tipo == tipo && s.EsPendiente() {
			count++
		}
	}
	return count, nil
}

func (f *solicitudesFake) CountAprobadasHoy(_ context.Context, tipo model.TipoSolicitud) (int, error) {
	count := 0
	for _, s := range f.solicitudes {
		if s.Tipo == tipo && s.Estado == model.SolicitudAprobada && s.ResolvedAt != nil {
			count++
		}
	}
	return count, nil
}

func (f *solicitudesFake) ListarPendientesVencidas(_ context.Context, _ time.Time) ([]*model.Solicitud, error) {
	return nil, nil
}

// -- Entorno --

type entornoHTTP struct {
	e              *echo.Echo
	ct             *Controller
	reservas       *reservasFake
	solicitudes    *solicitudesFake
	programaciones *programacionesFake
}

func nuevoEntornoHTTP() *entornoHTTP {
	reservas := &reservasFake{reservas: make(map[int64]*model.Reserva)}
	programaciones := &programacionesFake{programaciones: make(map[int64]*model.Programacion)}
	solicitudes := &solicitudesFake{
		solicitudes:    make(map[int64]*model.Solicitud),
		reservas:       reservas,
		programaciones: programaciones,
	}

	logger := zap.NewNop()
	solicitudSvc := service.NewSolicitudService(reservas, solicitudes, programaciones, notifier.NoOp{}, logger)
	disponibilidadSvc := service.NewDisponibilidadService(programaciones, logger)

	e := echo.New()
	ct := NewController(solicitudSvc, disponibilidadSvc, logger)
	ct.RegisterRoutes(e)

	return &entornoHTTP{
		e:              e,
		ct:             ct,
		reservas:       reservas,
		solicitudes:    solicitudes,
		programaciones: programaciones,
	}
}

func (e *entornoHTTP) agregarHorario(id int64, dias int, estado model.EstadoProgramacion) *model.Programacion {
	ahora := time.Now()
	inicio := time.Date(ahora.Year(), ahora.Month(), ahora.Day(), 10, 0, 0, 0, ahora.Location()).AddDate(0, 0, dias)
	prog := &model.Programacion{
		ID:         id,
		EmpleadoID: 1,
		Inicio:     inicio,
		Fin:        inicio.Add(30 * time.Minute),
		Estado:     estado,
		Empleado:   &model.Empleado{ID: 1, Nombre: "Laura", Apellido: "Campos", Especialidad: "Odontología"},
	}
	e.programaciones.programaciones[id] = prog
	return prog
}

func (e *entornoHTTP) agregarReserva(id int64, dias int) *model.Reserva {
	prog := e.agregarHorario(id*100, dias, model.ProgramacionOcupado)
	reserva := &model.Reserva{
		ID:                id,
		PacienteID:        id,
		ServicioID:        1,
		ProgramacionID:    prog.ID,
		Estado:            model.ReservaConfirmada,
		EstadoCancelacion: model.CancelacionNinguna,
		Paciente:          &model.Paciente{ID: id, Nombre: "Ana", Apellido: "Rojas"},
		Servicio:          &model.Servicio{ID: 1, Nombre: "Consulta general"},
		Programacion:      prog,
	}
	e.reservas.reservas[id] = reserva
	return reserva
}

// agregarSolicitud siembra una solicitud pendiente sin pasar por el servicio.
func (e *entornoHTTP) agregarSolicitud(reservaID int64, tipo model.TipoSolicitud) *model.Solicitud {
	e.solicitudes.seq++
	sol := &model.Solicitud{
		ID:        e.solicitudes.seq,
		Codigo:    uuid.New(),
		ReservaID: reservaID,
		Tipo:      tipo,
		Motivo:    "motivo de prueba",
		Estado:    model.SolicitudPendiente,
		CreatedAt: time.Now(),
	}
	e.solicitudes.solicitudes[sol.ID] = sol
	if tipo == model.TipoCancelacion {
		if r := e.reservas.reservas[reservaID]; r != nil {
			r.EstadoCancelacion = model.CancelacionSolicitada
		}
	}
	return sol
}

func (e *entornoHTTP) hacer(t *testing.T, metodo, url, cuerpo string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if cuerpo != "" {
		req = httptest.NewRequest(metodo, url, strings.NewReader(cuerpo))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(metodo, url, nil)
	}

	rec := httptest.NewRecorder()
	e.e.ServeHTTP(rec, req)
	return rec
}

func decodificar(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var cuerpo map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &cuerpo); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return cuerpo
}

// -- Lado paciente --

func TestSolicitarCancelacionEndpoint(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/solicitar-cancelacion",
		`{"id_reserva": 1, "motivo": "enfermedad"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	cuerpo := decodificar(t, rec)
	sol, ok := cuerpo["solicitud"].(map[string]any)
	if !ok {
		t.Fatalf("expected objeto solicitud, got %v", cuerpo)
	}
	if sol["estado"] != "Pendiente" {
		t.Errorf("expected estado Pendiente, got %v", sol["estado"])
	}
	if sol["paciente"] != "Ana Rojas" {
		t.Errorf("expected paciente Ana Rojas, got %v", sol["paciente"])
	}
	if sol["nueva_programacion_id"] != nil {
		t.Errorf("expected nueva_programacion_id null, got %v", sol["nueva_programacion_id"])
	}
}

func TestSolicitarCancelacionEndpoint_Duplicada(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)

	cuerpo := `{"id_reserva": 1, "motivo": "enfermedad"}`
	if rec := e.hacer(t, http.MethodPost, "/reservas/api/solicitar-cancelacion", cuerpo); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	rec := e.hacer(t, http.MethodPost, "/reservas/api/solicitar-cancelacion", cuerpo)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp := decodificar(t, rec); resp["error"] == nil {
		t.Error("expected campo error en la respuesta")
	}
}

func TestSolicitarReprogramacionEndpoint_FueraDeVentana(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 1) // mañana: faltan menos de 2 días

	rec := e.hacer(t, http.MethodPost, "/reservas/api/solicitar-reprogramacion",
		`{"id_reserva": 1, "motivo": "viaje"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSolicitarEndpoint_ReservaInexistente(t *testing.T) {
	e := nuevoEntornoHTTP()

	rec := e.hacer(t, http.MethodPost, "/reservas/api/solicitar-cancelacion",
		`{"id_reserva": 99, "motivo": "x"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

// -- Cola de cancelaciones --

func TestListarCancelaciones(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarReserva(2, 6)
	e.agregarSolicitud(1, model.TipoCancelacion)
	e.agregarSolicitud(2, model.TipoReprogramacion) // no debe aparecer

	rec := e.hacer(t, http.MethodGet, "/reservas/api/trabajador/solicitudes-cancelacion", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cuerpo := decodificar(t, rec)
	lista, ok := cuerpo["solicitudes"].([]any)
	if !ok {
		t.Fatalf("expected arreglo solicitudes, got %v", cuerpo)
	}
	if len(lista) != 1 {
		t.Fatalf("expected 1 solicitud, got %d", len(lista))
	}

	sol := lista[0].(map[string]any)
	for _, campo := range []string{"id_solicitud", "fecha", "hora_inicio", "hora_fin", "motivo", "estado"} {
		if _, ok := sol[campo]; !ok {
			t.Errorf("expected campo %s en el DTO", campo)
		}
	}
}

func TestListarCancelaciones_SinResultados(t *testing.T) {
	e := nuevoEntornoHTTP()

	rec := e.hacer(t, http.MethodGet, "/reservas/api/trabajador/solicitudes-cancelacion", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Arreglo vacío, nunca null
	if !strings.Contains(rec.Body.String(), `"solicitudes":[]`) {
		t.Errorf("expected arreglo vacío, got %s", rec.Body.String())
	}
}

func TestProcesarCancelacion_Aprobar(t *testing.T) {
	e := nuevoEntornoHTTP()
	reserva := e.agregarReserva(1, 5)
	sol := e.agregarSolicitud(1, model.TipoCancelacion)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/trabajador/procesar-cancelacion",
		`{"id_solicitud": 1, "accion": "Aprobada", "respuesta": "ok"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	if reserva.Estado != model.ReservaCancelada {
		t.Errorf("expected reserva Cancelada, got %s", reserva.Estado)
	}
	if sol.Estado != model.SolicitudAprobada {
		t.Errorf("expected solicitud Aprobada, got %s", sol.Estado)
	}
}

func TestProcesarCancelacion_AccionInvalida(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoCancelacion)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/trabajador/procesar-cancelacion",
		`{"id_solicitud": 1, "accion": "Archivar", "respuesta": "x"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestProcesarCancelacion_YaResuelta(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoCancelacion)

	cuerpo := `{"id_solicitud": 1, "accion": "Aprobada", "respuesta": "ok"}`
	if rec := e.hacer(t, http.MethodPost, "/reservas/api/trabajador/procesar-cancelacion", cuerpo); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec := e.hacer(t, http.MethodPost, "/reservas/api/trabajador/procesar-cancelacion", cuerpo)
	if rec.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
}

// -- Cola de reprogramaciones --

func TestAprobarReprogramacionEndpoint(t *testing.T) {
	e := nuevoEntornoHTTP()
	reserva := e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoReprogramacion)
	nuevo := e.agregarHorario(50, 10, model.ProgramacionDisponible)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/aprobar-reprogramacion",
		`{"id_solicitud": 1, "id_programacion": 50, "respuesta": "listo"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cuerpo := decodificar(t, rec)
	sol := cuerpo["solicitud"].(map[string]any)
	if sol["estado"] != "Aprobada" {
		t.Errorf("expected estado Aprobada, got %v", sol["estado"])
	}
	if sol["num_reprogramaciones"] != float64(1) {
		t.Errorf("expected num_reprogramaciones 1, got %v", sol["num_reprogramaciones"])
	}
	if reserva.ProgramacionID != nuevo.ID {
		t.Errorf("expected reserva en horario %d, got %d", nuevo.ID, reserva.ProgramacionID)
	}
}

func TestAprobarReprogramacionEndpoint_SinHorario(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoReprogramacion)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/aprobar-reprogramacion",
		`{"id_solicitud": 1, "respuesta": "ok"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRechazarReprogramacionEndpoint_SinRespuesta(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoReprogramacion)

	rec := e.hacer(t, http.MethodPost, "/reservas/api/rechazar-reprogramacion",
		`{"id_solicitud": 1, "respuesta": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

// -- Horarios y estadísticas --

func TestBuscarHorariosEndpoint(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarHorario(1, 3, model.ProgramacionDisponible)
	e.agregarHorario(2, 4, model.ProgramacionDisponible)
	e.agregarHorario(3, 4, model.ProgramacionOcupado)

	rec := e.hacer(t, http.MethodGet, "/reservas/api/buscar-horarios-disponibles", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cuerpo := decodificar(t, rec)
	if cuerpo["total"] != float64(2) {
		t.Errorf("expected total 2, got %v", cuerpo["total"])
	}

	horarios := cuerpo["horarios"].([]any)
	if len(horarios) != 2 {
		t.Fatalf("expected 2 horarios, got %d", len(horarios))
	}
	primero := horarios[0].(map[string]any)
	if primero["estado_programacion"] != "Disponible" {
		t.Errorf("expected estado_programacion Disponible, got %v", primero["estado_programacion"])
	}
	if primero["id_programacion"] != float64(1) {
		t.Errorf("expected el horario más próximo primero, got %v", primero["id_programacion"])
	}
}

func TestBuscarHorariosEndpoint_FechaInvalida(t *testing.T) {
	e := nuevoEntornoHTTP()

	rec := e.hacer(t, http.MethodGet, "/reservas/api/buscar-horarios-disponibles?fecha=ayer", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestEstadisticasEndpoint(t *testing.T) {
	e := nuevoEntornoHTTP()
	e.agregarReserva(1, 5)
	e.agregarSolicitud(1, model.TipoReprogramacion)

	rec := e.hacer(t, http.MethodGet, "/reservas/api/estadisticas-reprogramacion", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	cuerpo := decodificar(t, rec)
	if cuerpo["pendientes"] != float64(1) {
		t.Errorf("expected 1 pendiente, got %v", cuerpo["pendientes"])
	}
	if cuerpo["reprogramadas_hoy"] != float64(0) {
		t.Errorf("expected 0 reprogramadas hoy, got %v", cuerpo["reprogramadas_hoy"])
	}
}
