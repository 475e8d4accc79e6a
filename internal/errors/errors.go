// Package errors provides centralized error handling with optional telemetry integration
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// ErrorCategory represents the type of error for better categorization
type ErrorCategory string

// CategorizedError is an interface for errors that can specify their own category
type CategorizedError interface {
	error
	ErrorCategory() ErrorCategory
}

const (
	CategoryValidation    ErrorCategory = "validation"
	CategoryNotFound      ErrorCategory = "not-found"
	CategoryState         ErrorCategory = "state"
	CategoryModelInit     ErrorCategory = "model-initialization"
	CategoryModelLoad     ErrorCategory = "model-loading"
	CategoryLabelLoad     ErrorCategory = "label-loading"
	CategoryImageDecode   ErrorCategory = "image-decode"
	CategoryInference     ErrorCategory = "inference"
	CategoryDatabase      ErrorCategory = "database"
	CategoryFileIO        ErrorCategory = "file-io"
	CategoryNetwork       ErrorCategory = "network"
	CategoryHTTP          ErrorCategory = "http-request"
	CategoryConfiguration ErrorCategory = "configuration"
	CategoryTranslation   ErrorCategory = "translation"
	CategoryNotification  ErrorCategory = "notification"
	CategoryMQTTConnect   ErrorCategory = "mqtt-connection"
	CategoryMQTTPublish   ErrorCategory = "mqtt-publish"
	CategorySystem        ErrorCategory = "system-resource"
	CategoryTimeout       ErrorCategory = "timeout"
	CategoryGeneric       ErrorCategory = "generic"
)

// ComponentUnknown is used when the component cannot be determined.
const ComponentUnknown = "unknown"

// EnhancedError wraps an error with additional context and metadata
type EnhancedError struct {
	Err       error          // Original error
	component string         // Component where error occurred
	Category  ErrorCategory  // Error category for grouping
	Context   map[string]any // Additional context data
	Timestamp time.Time      // When the error occurred
	reported  bool
	mu        sync.RWMutex
}

// Error implements the error interface
func (ee *EnhancedError) Error() string {
	return ee.Err.Error()
}

// Unwrap implements the error unwrapping interface
func (ee *EnhancedError) Unwrap() error {
	return ee.Err
}

// Is matches another EnhancedError by category, otherwise defers to the wrapped error.
func (ee *EnhancedError) Is(target error) bool {
	if ee2, ok := target.(*EnhancedError); ok {
		return ee.Category == ee2.Category
	}
	return Is(ee.Err, target)
}

// GetComponent returns the component name
func (ee *EnhancedError) GetComponent() string {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	return ee.component
}

// GetCategory returns the error category
func (ee *EnhancedError) GetCategory() string {
	return string(ee.Category)
}

// GetContext returns a copy of the error context
func (ee *EnhancedError) GetContext() map[string]any {
	ee.mu.RLock()
	defer ee.mu.RUnlock()

	if ee.Context == nil {
		return nil
	}
	contextCopy := make(map[string]any, len(ee.Context))
	maps.Copy(contextCopy, ee.Context)
	return contextCopy
}

// MarkReported marks this error as reported to telemetry
func (ee *EnhancedError) MarkReported() {
	ee.mu.Lock()
	defer ee.mu.Unlock()
	ee.reported = true
}

// IsReported returns whether this error has been reported
func (ee *EnhancedError) IsReported() bool {
	ee.mu.RLock()
	defer ee.mu.RUnlock()
	return ee.reported
}

// ErrorBuilder provides a fluent interface for creating enhanced errors
type ErrorBuilder struct {
	err       error
	component string
	category  ErrorCategory
	context   map[string]any
}

// New creates a new error with enhanced context
func New(err error) *ErrorBuilder {
	return &ErrorBuilder{err: err}
}

// Newf creates a new formatted error with enhanced context
func Newf(format string, args ...any) *ErrorBuilder {
	return New(fmt.Errorf(format, args...))
}

// Component sets the component name (auto-detected if not set)
func (eb *ErrorBuilder) Component(component string) *ErrorBuilder {
	eb.component = component
	return eb
}

// Category sets the error category
func (eb *ErrorBuilder) Category(category ErrorCategory) *ErrorBuilder {
	eb.category = category
	return eb
}

// Context adds context data to the error
func (eb *ErrorBuilder) Context(key string, value any) *ErrorBuilder {
	if eb.context == nil {
		eb.context = make(map[string]any)
	}
	eb.context[key] = value
	return eb
}

// Timing adds performance timing context
func (eb *ErrorBuilder) Timing(operation string, duration time.Duration) *ErrorBuilder {
	eb.Context("operation", operation)
	eb.Context("duration_ms", duration.Milliseconds())
	return eb
}

// Build creates the EnhancedError and triggers optional telemetry reporting
func (eb *ErrorBuilder) Build() *EnhancedError {
	if eb.err == nil {
		eb.err = stderrors.New("unspecified error")
	}

	// Fast path: no reporter configured, skip stack walking
	if !hasActiveReporting.Load() {
		ee := &EnhancedError{
			Err:       eb.err,
			component: eb.component,
			Category:  eb.category,
			Context:   eb.context,
			Timestamp: time.Now(),
		}
		if ee.component == "" {
			ee.component = ComponentUnknown
		}
		if ee.Category == "" {
			ee.Category = inheritedCategory(eb.err)
		}
		return ee
	}

	if eb.component == "" {
		eb.component = detectComponent()
	}
	if eb.category == "" {
		eb.category = inheritedCategory(eb.err)
	}

	ee := &EnhancedError{
		Err:       eb.err,
		component: eb.component,
		Category:  eb.category,
		Context:   eb.context,
		Timestamp: time.Now(),
	}

	reportToTelemetry(ee)

	return ee
}

// inheritedCategory reuses the category of a wrapped error when one exists.
func inheritedCategory(err error) ErrorCategory {
	var catErr CategorizedError
	if stderrors.As(err, &catErr) {
		return catErr.ErrorCategory()
	}
	var enhErr *EnhancedError
	if stderrors.As(err, &enhErr) && enhErr.Category != "" {
		return enhErr.Category
	}
	return CategoryGeneric
}

// Component registry for dynamic component detection
var (
	componentRegistry = make(map[string]string)
	registryMutex     sync.RWMutex
)

// RegisterComponent registers a package path pattern with a component name
func RegisterComponent(packagePattern, componentName string) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	componentRegistry[packagePattern] = componentName
}

func init() {
	RegisterComponent("internal/classifier", "classifier")
	RegisterComponent("internal/taxonomy", "taxonomy")
	RegisterComponent("internal/recommend", "recommend")
	RegisterComponent("internal/session", "session")
	RegisterComponent("internal/rewards", "rewards")
	RegisterComponent("internal/forum", "forum")
	RegisterComponent("internal/datastore", "datastore")
	RegisterComponent("internal/translate", "translate")
	RegisterComponent("internal/notification", "notification")
	RegisterComponent("internal/mqtt", "mqtt")
	RegisterComponent("internal/conf", "configuration")
	RegisterComponent("internal/httpcontroller", "http-controller")
}

const selfPackage = "smartwaste/internal/errors"

// detectComponent walks the call stack to find the first registered component
func detectComponent() string {
	pcs := make([]uintptr, 32)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.Function, selfPackage) {
			if component := lookupComponent(frame.Function); component != "" {
				return component
			}
		}
		if !more {
			break
		}
	}
	return ComponentUnknown
}

func lookupComponent(funcName string) string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	for pattern, component := range componentRegistry {
		if strings.Contains(funcName, pattern) {
			return component
		}
	}
	return ""
}

// ValidationError creates a validation error
func ValidationError(message string) *EnhancedError {
	return New(NewStd(message)).
		Category(CategoryValidation).
		Build()
}

// Standard library passthrough functions

// NewStd creates a new standard error
func NewStd(text string) error {
	return stderrors.New(text)
}

// Is reports whether any error in err's tree matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// Join returns an error that wraps the given errors
func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// IsCategory checks if an error is an EnhancedError with the specified category.
func IsCategory(err error, category ErrorCategory) bool {
	var enhancedErr *EnhancedError
	return As(err, &enhancedErr) && enhancedErr.Category == category
}

// IsValidation reports whether err is a user-facing validation failure.
func IsValidation(err error) bool {
	return IsCategory(err, CategoryValidation)
}

var hasActiveReporting atomic.Bool
