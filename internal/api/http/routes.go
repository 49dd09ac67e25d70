package httpapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/i474232898/solar-potential/internal/metrics"
	"github.com/i474232898/solar-potential/internal/solar"
)

const defaultForecastDays = 7

// NewApp builds the Fiber app with middleware, health, metrics and API routes.
func NewApp(service *solar.Service) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "solar-potential",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// Optimal tilt and comparisons wait on provider calls bounded at 15s each.
		WriteTimeout: 60 * time.Second,
		ErrorHandler: ErrorHandler,
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthReport(service))
	})
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	RegisterRoutes(app, service)
	return app
}

// ErrorHandler renders every failure as a JSON body. Engine failures carry their
// kind and, for upstream errors, the provider's status code.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}

	var fe *fiber.Error
	var se *solar.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.As(err, &se):
		code = statusForKind(se.Kind)
		body["kind"] = se.Kind
		if se.StatusCode != 0 {
			body["upstreamStatus"] = se.StatusCode
		}
	}
	if id, ok := c.Locals("requestid").(string); ok && id != "" {
		body["requestId"] = id
	}

	return c.Status(code).JSON(body)
}

func statusForKind(k solar.Kind) int {
	switch k {
	case solar.KindInvalidInput:
		return fiber.StatusBadRequest
	case solar.KindTimeout:
		return fiber.StatusGatewayTimeout
	case solar.KindUpstream, solar.KindTransport, solar.KindMalformed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *solar.Service) {
	v1 := app.Group("/api/v1/solar")

	v1.Get("/overview", func(c *fiber.Ctx) error {
		q, err := parsePointQuery(c)
		if err != nil {
			return err
		}
		result, err := service.Overview(c.UserContext(), q.Location())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Get("/pv-estimate", func(c *fiber.Ctx) error {
		var q solar.EstimateQuery
		if err := bindEstimate(c, &q); err != nil {
			return err
		}
		result, err := service.PVEstimate(c.UserContext(), q.Location(), q.System())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Get("/resource", func(c *fiber.Ctx) error {
		q, err := parsePointQuery(c)
		if err != nil {
			return err
		}
		result, err := service.SolarResource(c.UserContext(), q.Location())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		var q solar.ForecastQuery
		point, err := parsePointQuery(c)
		if err != nil {
			return err
		}
		q.PointQuery = point
		q.Days = defaultForecastDays
		if v := c.Query("days"); v != "" {
			if q.Days, err = strconv.Atoi(v); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "days must be an integer")
			}
		}
		if err := solar.Validate(q); err != nil {
			return err
		}
		result, err := service.RadiationForecast(c.UserContext(), q.Location(), q.Days)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Get("/optimal-tilt", func(c *fiber.Ctx) error {
		var q solar.TiltQuery
		point, err := parsePointQuery(c)
		if err != nil {
			return err
		}
		q.PointQuery = point
		capacity, err := queryFloat(c, "capacity", true)
		if err != nil {
			return err
		}
		q.CapacityKW = *capacity
		if err := solar.Validate(q); err != nil {
			return err
		}
		result, err := service.OptimalTilt(c.UserContext(), q.Location(), q.CapacityKW)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Post("/compare", func(c *fiber.Ctx) error {
		var req solar.CompareRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
		}
		if err := solar.Validate(req); err != nil {
			return err
		}
		result, err := service.CompareLocations(c.UserContext(), req.Named(), req.CapacityKW)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}

// providerHealth is one provider's entry in the health report.
type providerHealth struct {
	Status string             `json:"status"`
	Last   *solar.ProbeResult `json:"last,omitempty"`
}

func healthReport(service *solar.Service) fiber.Map {
	providers := make(map[string]providerHealth)
	overall := "ok"
	for _, name := range service.ProviderNames() {
		h := providerHealth{Status: "unknown"}
		if last, err := service.LatestProbe(name); err == nil {
			h.Last = &last
			h.Status = "ok"
			if !last.OK {
				h.Status = "degraded"
				overall = "degraded"
			}
		}
		providers[name] = h
	}
	return fiber.Map{
		"status":    overall,
		"service":   "solar-potential",
		"providers": providers,
	}
}

func parsePointQuery(c *fiber.Ctx) (solar.PointQuery, error) {
	var q solar.PointQuery

	lat, err := queryFloat(c, "lat", true)
	if err != nil {
		return q, err
	}
	lon, err := queryFloat(c, "lon", true)
	if err != nil {
		return q, err
	}
	q.Lat, q.Lon = *lat, *lon

	if err := solar.Validate(q); err != nil {
		return q, err
	}
	return q, nil
}

func bindEstimate(c *fiber.Ctx, q *solar.EstimateQuery) error {
	point, err := parsePointQuery(c)
	if err != nil {
		return err
	}
	q.PointQuery = point

	capacity, err := queryFloat(c, "capacity", true)
	if err != nil {
		return err
	}
	q.CapacityKW = *capacity

	if q.TiltDeg, err = queryFloat(c, "tilt", false); err != nil {
		return err
	}
	if q.AzimuthDeg, err = queryFloat(c, "azimuth", false); err != nil {
		return err
	}
	if q.LossesPercent, err = queryFloat(c, "losses", false); err != nil {
		return err
	}
	q.ModuleType = solar.ModuleType(c.Query("module"))

	return solar.Validate(*q)
}

// queryFloat parses a float query parameter. Optional parameters return nil when absent.
func queryFloat(c *fiber.Ctx, key string, required bool) (*float64, error) {
	v := c.Query(key)
	if v == "" {
		if required {
			return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s query parameter is required", key))
		}
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%s must be a number", key))
	}
	return &f, nil
}
