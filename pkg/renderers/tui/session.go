package tui

import (
	"context"
	"errors"

	"github.com/goliatone/go-postgen/pkg/content"
	"github.com/goliatone/go-postgen/pkg/controller"
	"github.com/goliatone/go-postgen/pkg/model"
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRepeat asks whether to generate again after each outcome.
func WithRepeat(enabled bool) SessionOption {
	return func(s *Session) {
		s.repeat = enabled
	}
}

// Session runs the interactive loop: collect the form, submit it through the
// controller and print the outcome.
type Session struct {
	renderer   *Renderer
	controller *controller.Controller
	form       model.FormModel
	repeat     bool
}

// NewSession binds a renderer and controller to a form model.
func NewSession(renderer *Renderer, ctrl *controller.Controller, form model.FormModel, options ...SessionOption) (*Session, error) {
	if renderer == nil {
		return nil, errors.New("tui: renderer is required")
	}
	if ctrl == nil {
		return nil, errors.New("tui: controller is required")
	}
	s := &Session{renderer: renderer, controller: ctrl, form: form}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Run blocks until the user stops or an error occurs. It returns the last
// settled result.
func (s *Session) Run(ctx context.Context) (content.Result, error) {
	if err := s.renderer.ShowHeader(ctx, s.form); err != nil {
		return content.Result{}, err
	}
	if err := s.renderer.ShowResult(ctx, s.controller.Result()); err != nil {
		return content.Result{}, err
	}

	for {
		values, err := s.renderer.Collect(ctx, s.form, s.controller.Form(), nil)
		if err != nil {
			return s.controller.Result(), err
		}
		s.controller.SetForm(values)

		unsubscribe := s.controller.Subscribe(func(result content.Result) {
			if result.IsLoading() {
				_ = s.renderer.ShowResult(ctx, result)
			}
		})
		result, err := s.controller.Submit(ctx)
		unsubscribe()
		switch {
		case errors.Is(err, controller.ErrDescriptionRequired):
			if _, ok := s.form.Field(content.FieldDescription); !ok {
				return result, err
			}
			if infoErr := s.renderer.driver.Info(ctx, s.renderer.theme.ErrorPrefix+"Description is required"); infoErr != nil {
				return result, infoErr
			}
			continue
		case err != nil:
			return result, err
		}

		if err := s.renderer.ShowResult(ctx, result); err != nil {
			return result, err
		}
		if !s.repeat {
			return result, nil
		}
		again, err := s.renderer.driver.Confirm(ctx, ConfirmConfig{Message: "Generate another?", Default: true})
		if err != nil || !again {
			return result, err
		}
	}
}
