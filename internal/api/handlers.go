package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"worldstats/internal/engine"
	"worldstats/internal/models"
	"worldstats/internal/view"

	"github.com/labstack/echo/v4"
)

// liveData is everything built once the startup load succeeded.
type liveData struct {
	ds      *engine.Dataset
	geo     []byte
	names   map[string]string
	session *view.Session
	frames  *FrameRecorder
}

type Handler struct {
	data        atomic.Pointer[liveData]
	metrics     *Metrics
	defaultYear int
}

// NewHandler returns a handler with no data. Data routes answer 503 until
// SetData is called.
func NewHandler(metrics *Metrics, defaultYear int) *Handler {
	return &Handler{metrics: metrics, defaultYear: defaultYear}
}

// SetData publishes the loaded dataset and draws the first frames.
func (h *Handler) SetData(ds *engine.Dataset, geo []byte) {
	frames := &FrameRecorder{}
	session := view.NewSession(ds, view.NewState(h.defaultYear), frames)
	if h.metrics != nil {
		session.SetObserver(h.metrics)
	}
	session.Render()

	names := make(map[string]string, len(ds.Countries))
	for _, c := range ds.Countries {
		names[c.Code] = c.Name
	}

	h.data.Store(&liveData{ds: ds, geo: geo, names: names, session: session, frames: frames})
	if h.metrics != nil {
		h.metrics.SetReady()
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/health", h.GetHealth)
	api.GET("/countries", h.GetCountries, h.requireData)
	api.GET("/years", h.GetYears, h.requireData)
	api.GET("/geo", h.GetGeo, h.requireData)
	api.GET("/view", h.GetView, h.requireData)
	api.POST("/actions", h.PostAction, h.requireData)
	api.GET("/domain", h.GetDomain, h.requireData)
	api.GET("/bars", h.GetBars, h.requireData)
	api.GET("/trend/:code", h.GetTrend, h.requireData)
	api.GET("/export.arrow", h.ExportArrow, h.requireData)

	if h.metrics != nil {
		e.GET("/metrics", h.metrics.Handler())
	}
}

func (h *Handler) requireData(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if h.data.Load() == nil {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "dataset is loading")
		}
		return next(c)
	}
}

// --- HELPERS ---

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}

func intParam(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s %q", name, v))
	}
	return n, nil
}

func codesParam(c echo.Context) []string {
	var codes []string
	for _, s := range strings.Split(c.QueryParam("codes"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			codes = append(codes, s)
		}
	}
	return codes
}

type viewResponse struct {
	State   view.State    `json:"state"`
	Frames  models.Frames `json:"frames"`
	Clipped bool          `json:"clipped,omitempty"`
}

type domainResponse struct {
	Year   int            `json:"year"`
	Metric models.Metric  `json:"metric"`
	NoData bool           `json:"noData"`
	Domain *models.Domain `json:"domain,omitempty"`
}

// --- HANDLERS ---

func (h *Handler) GetHealth(c echo.Context) error {
	status := "loading"
	if h.data.Load() != nil {
		status = "ready"
	}
	return c.JSON(http.StatusOK, map[string]string{"status": status})
}

// countries for the custom picker, sorted by name
func (h *Handler) GetCountries(c echo.Context) error {
	return writeJSON(c, http.StatusOK, h.data.Load().ds.Countries)
}

func (h *Handler) GetYears(c echo.Context) error {
	return writeJSON(c, http.StatusOK, h.data.Load().ds.Years)
}

// boundary collection, verbatim
func (h *Handler) GetGeo(c echo.Context) error {
	return writeBlob(c, http.StatusOK, "application/geo+json", h.data.Load().geo)
}

func (h *Handler) GetView(c echo.Context) error {
	d := h.data.Load()
	var resp viewResponse
	d.session.Read(func(st view.State) {
		resp = viewResponse{State: st, Frames: d.frames.Frames()}
	})
	return writeJSON(c, http.StatusOK, resp)
}

func (h *Handler) PostAction(c echo.Context) error {
	d := h.data.Load()

	var req view.Request
	if err := c.Bind(&req); err != nil {
		return err
	}
	action, err := req.ToAction()
	if err != nil {
		return badRequest(err)
	}

	// State and frames are taken before another action can render.
	var resp viewResponse
	res, err := d.session.DispatchAndRead(action, func(st view.State) {
		resp = viewResponse{State: st, Frames: d.frames.Frames()}
	})
	if err != nil {
		return badRequest(err)
	}
	resp.Clipped = res.Clipped

	c.Logger().Debugf("action %s applied (scope %s, clipped %v)", action.Name(), res.Scope, res.Clipped)
	return writeJSON(c, http.StatusOK, resp)
}

func (h *Handler) GetDomain(c echo.Context) error {
	d := h.data.Load()
	year, err := intParam(c, "year", h.defaultYear)
	if err != nil {
		return err
	}
	metric := models.MetricGDPPerCapita
	if v := c.QueryParam("metric"); v != "" {
		if metric, err = models.ParseMetric(v); err != nil {
			return badRequest(err)
		}
	}

	resp := domainResponse{Year: year, Metric: metric}
	domain, err := engine.MetricDomain(d.ds.Index, year, metric)
	switch {
	case errors.Is(err, engine.ErrNoData):
		resp.NoData = true
	case err != nil:
		return err
	default:
		resp.Domain = &domain
	}
	return writeJSON(c, http.StatusOK, resp)
}

func (h *Handler) GetBars(c echo.Context) error {
	d := h.data.Load()
	year, err := intParam(c, "year", h.defaultYear)
	if err != nil {
		return err
	}
	mode := models.BarTop
	if v := c.QueryParam("mode"); v != "" {
		if mode, err = models.ParseBarMode(v); err != nil {
			return badRequest(err)
		}
	}
	return writeJSON(c, http.StatusOK, view.BarFrame(d.ds.Index, year, mode, codesParam(c)))
}

func (h *Handler) GetTrend(c echo.Context) error {
	d := h.data.Load()
	code := c.Param("code")

	latest := h.defaultYear
	if n := len(d.ds.Years); n > 0 {
		latest = d.ds.Years[n-1]
	}
	year, err := intParam(c, "year", latest)
	if err != nil {
		return err
	}
	window, err := intParam(c, "window", engine.DefaultTrendWindow)
	if err != nil {
		return err
	}
	return writeJSON(c, http.StatusOK, view.TrendFrame(d.ds.Index, code, d.names[code], year, window))
}

// dataset as an Arrow IPC stream
func (h *Handler) ExportArrow(c echo.Context) error {
	cols := h.data.Load().ds.Columns
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "application/vnd.apache.arrow.stream")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="worldstats.arrow"`)
	res.WriteHeader(http.StatusOK)
	return cols.WriteIPC(res)
}
