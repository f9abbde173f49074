package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/controller"
	"github.com/goliatone/go-postgen/pkg/model"
	"github.com/goliatone/go-postgen/pkg/render"
	"github.com/goliatone/go-postgen/pkg/renderers/vanilla"
)

const (
	healthPath  = "/healthz"
	metricsPath = "/metrics"
	assetsPath  = "/assets"

	upstreamHealthTimeout = 5 * time.Second

	// DescriptionRequiredMessage is shown when the form is posted without a
	// description.
	DescriptionRequiredMessage = "Description is required"
	// InvalidSubmissionMessage is shown when the request body cannot be bound.
	InvalidSubmissionMessage = "Invalid form submission"

	formErrorKey = "form"
)

type submission struct {
	Description string `form:"user_instruction"`
	Tone        string `form:"tone"`
	Style       string `form:"style"`
}

func (s *Server) registerRoutes() {
	s.engine.Use(gin.Recovery(), requestID(), zapLogger(s.logger))
	if s.metrics != nil {
		s.engine.Use(recordMetrics(s.metrics))
	}

	s.engine.GET("/", s.handleIndex)
	s.engine.POST("/", s.handleSubmit)
	s.engine.GET(healthPath, s.handleHealth)
	if s.metrics != nil {
		s.engine.GET(metricsPath, gin.WrapH(s.metrics.Handler()))
	}
	s.engine.StaticFS(assetsPath, http.FS(vanilla.AssetsFS()))
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, http.StatusOK, render.RenderOptions{
		Values: content.DefaultFormState(),
		Result: content.Idle(),
	})
}

func (s *Server) handleSubmit(c *gin.Context) {
	ctx := c.Request.Context()
	form, err := s.orch.Form(ctx, s.formRequest())
	if err != nil {
		s.fail(c, err)
		return
	}

	var in submission
	if err := c.ShouldBind(&in); err != nil {
		s.reject(c, form, content.DefaultFormState(), map[string][]string{
			formErrorKey: {InvalidSubmissionMessage, err.Error()},
		})
		return
	}

	state := content.DefaultFormState()
	state.Description = in.Description
	if in.Tone != "" {
		state.Tone = content.Tone(in.Tone)
	}
	if in.Style != "" {
		state.Style = content.Style(in.Style)
	}

	if errs := validateSubmission(form, state); len(errs) > 0 {
		s.reject(c, form, state, errs)
		return
	}

	logger := s.logger.With(zap.String("request_id", c.GetString(requestIDKey)))
	options := []controller.Option{
		controller.WithLogger(logger),
		controller.WithInitialForm(state),
	}
	if s.metrics != nil {
		options = append(options, controller.WithObserver(s.metrics))
	}
	ctrl, err := controller.New(s.generator, options...)
	if err != nil {
		s.fail(c, err)
		return
	}

	result, err := ctrl.Submit(ctx)
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderForm(c, http.StatusOK, form, render.RenderOptions{
		Values: ctrl.Form(),
		Result: result,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), upstreamHealthTimeout)
		defer cancel()
		health, err := s.health.Health(ctx)
		if err != nil {
			s.logger.Warn("upstream health check failed",
				zap.String("request_id", c.GetString(requestIDKey)),
				zap.Error(err),
			)
			resp["upstream"] = gin.H{"status": "unavailable"}
		} else {
			resp["upstream"] = health
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) renderPage(c *gin.Context, status int, opts render.RenderOptions) {
	form, err := s.orch.Form(c.Request.Context(), s.formRequest())
	if err != nil {
		s.fail(c, err)
		return
	}
	s.renderForm(c, status, form, opts)
}

func (s *Server) renderForm(c *gin.Context, status int, form model.FormModel, opts render.RenderOptions) {
	if opts.Action == "" {
		opts.Action = "/"
	}
	req := s.formRequest()
	req.RenderOptions = opts

	body, err := s.orch.RenderForm(c.Request.Context(), form, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	contentType := "text/html; charset=utf-8"
	if renderer, err := s.orch.Renderer(req.Renderer); err == nil {
		contentType = renderer.ContentType()
	}
	c.Data(status, contentType, body)
}

// reject renders the form with HTTP 400. payload keys are field names or
// formErrorKey; they are mapped onto the form before rendering.
func (s *Server) reject(c *gin.Context, form model.FormModel, state content.FormState, payload map[string][]string) {
	mapped := render.MapErrorPayload(form, payload)
	s.renderForm(c, http.StatusBadRequest, form, render.RenderOptions{
		Values:     state,
		Result:     content.Failed(firstMessage(form, mapped)),
		Errors:     mapped.Fields,
		FormErrors: mapped.Form,
	})
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.String(http.StatusInternalServerError, "internal server error")
}

// validateSubmission returns field errors keyed by field name.
func validateSubmission(form model.FormModel, state content.FormState) map[string][]string {
	errs := make(map[string][]string)
	if !state.HasDescription() {
		errs[content.FieldDescription] = append(errs[content.FieldDescription], DescriptionRequiredMessage)
	}
	for _, field := range form.Fields {
		if field.Widget != model.WidgetSelect {
			continue
		}
		if value := state.Value(field.Name); !field.HasOption(value) {
			errs[field.Name] = append(errs[field.Name], "Choose a valid "+strings.ToLower(labelOf(field)))
		}
	}
	return errs
}

// firstMessage picks the first form-level message, else the message of the
// first invalid field in form order.
func firstMessage(form model.FormModel, mapped render.ErrorMapping) string {
	if len(mapped.Form) > 0 {
		return mapped.Form[0]
	}
	for _, field := range form.Fields {
		if messages := mapped.Fields[field.Name]; len(messages) > 0 {
			return messages[0]
		}
	}
	return ""
}

func labelOf(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return model.DefaultLabeler(field.Name)
}
