package server

import (
	"bytes"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/storage"
)

type errorResponse struct {
	Error string `json:"error"`
}

type facetsResponse struct {
	Dataset models.DatasetInfo  `json:"dataset"`
	Facets  models.FacetOptions `json:"facets"`
}

type carsResponse struct {
	SessionID string         `json:"session_id"`
	Count     int            `json:"count"`
	Summary   models.Summary `json:"summary"`
	Columns   []string       `json:"columns"`
	Rows      [][]string     `json:"rows"`
	Empty     bool           `json:"empty"`
	Message   string         `json:"message,omitempty"`
}

type summaryResponse struct {
	SessionID string                `json:"session_id"`
	Report    *models.InsightReport `json:"report"`
	Empty     bool                  `json:"empty"`
	Message   string                `json:"message,omitempty"`
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "session_id": s.session.ID})
}

func (s *Server) facets(c fiber.Ctx) error {
	return c.JSON(facetsResponse{
		Dataset: s.session.Info(),
		Facets:  s.session.Facets(),
	})
}

func (s *Server) cars(c fiber.Ctx) error {
	result, dq, err := s.query(c)
	if err != nil {
		return err
	}

	rows := result.Records
	if dq.Sort != "none" {
		rows = services.SortByPrice(rows, s.session.Schema())
	}

	schema := s.session.Schema()
	cols := schema.Visible(schema.HiddenColumns())
	resp := carsResponse{
		SessionID: s.session.ID,
		Count:     len(result.Records),
		Summary:   result.Report.Summary,
		Columns:   make([]string, len(cols)),
		Rows:      make([][]string, 0, len(rows)),
		Empty:     result.Empty(),
	}
	for i, col := range cols {
		resp.Columns[i] = col.Name
	}
	for i := range rows {
		row := make([]string, len(cols))
		for j, col := range cols {
			row[j] = col.Get(&rows[i])
		}
		resp.Rows = append(resp.Rows, row)
	}
	if resp.Empty {
		resp.Message = services.EmptyResultMessage + " " + services.EmptyResultHint
	}

	c.Set("X-Session-ID", s.session.ID)
	return c.JSON(resp)
}

func (s *Server) summary(c fiber.Ctx) error {
	result, _, err := s.query(c)
	if err != nil {
		return err
	}

	resp := summaryResponse{
		SessionID: s.session.ID,
		Report:    result.Report,
		Empty:     result.Empty(),
	}
	if resp.Empty {
		resp.Message = services.EmptyResultMessage
	}
	return c.JSON(resp)
}

func (s *Server) export(c fiber.Ctx) error {
	result, dq, err := s.query(c)
	if err != nil {
		return err
	}

	exp, err := storage.NewExporter(dq.Format, s.session.Schema())
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var buf bytes.Buffer
	if err := exp.Export(&buf, result.Records); err != nil {
		return err
	}
	exportsTotal.WithLabelValues(exp.Extension()).Inc()

	filename := storage.ExportFileName(s.prefix, exp.Extension(), s.now())
	s.logger.Info("[server] Export %s: %d rows", filename, len(result.Records))

	c.Set("Content-Type", exp.ContentType())
	c.Set("Content-Disposition", "attachment; filename="+filename)
	c.Set("X-Result-Count", strconv.Itoa(len(result.Records)))
	return c.Send(buf.Bytes())
}

// query parses and validates the request, then runs the pipeline.
func (s *Server) query(c fiber.Ctx) (*services.Result, displayQuery, error) {
	dq := displayQuery{Sort: c.Query("sort"), Format: c.Query("format")}
	if err := s.validator.Struct(&dq); err != nil {
		return nil, dq, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	spec, err := parseSpec(c)
	if err != nil {
		return nil, dq, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return s.session.Query(spec), dq, nil
}
