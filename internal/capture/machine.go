// Package capture implements the report wizard: it collects the report step
// by step, gates forward moves on step-local validation and hands the
// finished payload to the submission controller.
package capture

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"hazardsync/internal/domain"
	"hazardsync/internal/photo"
	"hazardsync/pkg/e"
	"hazardsync/pkg/validator"
)

//go:generate mockgen -source=machine.go -destination=mocks/mock.go
type Submitter interface {
	Submit(ctx context.Context, p domain.ReportPayload) (domain.SubmitResult, error)
}

type AddressResolver interface {
	Resolve(ctx context.Context, lat, lng float64) string
}

type Options struct {
	// Identity is bound to every report when set; the contact step is skipped.
	Identity      *domain.Reporter
	Photo         photo.Constraints
	LookupTimeout time.Duration
}

type Details struct {
	HazardType  domain.HazardType `json:"hazard_type" validate:"omitempty,oneof=pothole flooding landslide fallen_tree road_obstruction fire electrical other"`
	Severity    domain.Severity   `json:"severity" validate:"omitempty,oneof=low medium high critical"`
	Description string            `json:"description" validate:"max=2000"`
}

type Contact struct {
	Anonymous bool   `json:"anonymous"`
	Name      string `json:"name" validate:"max=120"`
	Contact   string `json:"contact" validate:"max=120,contact"`
}

type point struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

// lookup is one in-flight reverse geocode for an armed point.
type lookup struct {
	at      point
	cancel  context.CancelFunc
	done    chan struct{}
	address string
}

type draft struct {
	details   Details
	armed     *lookup
	location  *domain.Location
	photo     *domain.Photo
	contact   Contact
	contactOK bool
}

type Machine struct {
	mu         sync.Mutex
	step       Step
	steps      []Step
	draft      draft
	submitting bool

	identity  *domain.Reporter
	resolver  AddressResolver
	submitter Submitter
	limits    photo.Constraints
	timeout   time.Duration
	logger    *slog.Logger
}

func NewMachine(resolver AddressResolver, submitter Submitter, opts Options, logger *slog.Logger) *Machine {
	timeout := opts.LookupTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Machine{
		step:      StepDetails,
		steps:     flow(opts.Identity != nil),
		identity:  opts.Identity,
		resolver:  resolver,
		submitter: submitter,
		limits:    opts.Photo,
		timeout:   timeout,
		logger:    logger,
	}
}

// at must be called with mu held.
func (m *Machine) at(op string, want Step) error {
	if m.submitting {
		return fmt.Errorf("%s: %w: submission in progress", op, e.ErrWrongStep)
	}
	if m.step != want {
		return fmt.Errorf("%s: %w: current step is %s", op, e.ErrWrongStep, m.step)
	}
	return nil
}

func (m *Machine) SetDetails(d Details) error {
	const op = "capture.Machine.SetDetails"

	if err := validator.Check(d); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.at(op, StepDetails); err != nil {
		return err
	}
	m.draft.details = d
	return nil
}

// ArmLocation places the marker and starts resolving its address. The step is
// not complete until ConfirmLocation is called.
func (m *Machine) ArmLocation(lat, lng float64) error {
	const op = "capture.Machine.ArmLocation"

	p := point{Lat: lat, Lng: lng}
	if err := validator.Check(p); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.at(op, StepLocation); err != nil {
		return err
	}

	m.cancelLookup()
	m.draft.location = nil

	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	l := &lookup{at: p, cancel: cancel, done: make(chan struct{})}
	m.draft.armed = l

	go func() {
		defer cancel()
		l.address = m.resolver.Resolve(ctx, p.Lat, p.Lng)
		close(l.done)
	}()
	return nil
}

// ConfirmLocation marks the armed point as the hazard location. It waits for
// the pending address lookup; if ctx ends first the coordinate label is used.
func (m *Machine) ConfirmLocation(ctx context.Context) (domain.Location, error) {
	const op = "capture.Machine.ConfirmLocation"

	m.mu.Lock()
	if err := m.at(op, StepLocation); err != nil {
		m.mu.Unlock()
		return domain.Location{}, err
	}
	l := m.draft.armed
	if l == nil {
		defer m.mu.Unlock()
		if m.draft.location != nil {
			return *m.draft.location, nil
		}
		return domain.Location{}, e.NewValidationError("location", "select a point before confirming")
	}
	m.mu.Unlock()

	address := domain.CoordinateLabel(l.at.Lat, l.at.Lng)
	select {
	case <-l.done:
		if l.address != "" {
			address = l.address
		}
	case <-ctx.Done():
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.draft.armed != l {
		return domain.Location{}, fmt.Errorf("%s: %w: location changed while confirming", op, e.ErrConflict)
	}
	if err := m.at(op, StepLocation); err != nil {
		return domain.Location{}, err
	}

	l.cancel()
	loc := domain.Location{Lat: l.at.Lat, Lng: l.at.Lng, Address: address}
	m.draft.location = &loc
	m.draft.armed = nil
	return loc, nil
}

func (m *Machine) AttachPhoto(filename string, data []byte) error {
	const op = "capture.Machine.AttachPhoto"

	m.mu.Lock()
	if err := m.at(op, StepPhoto); err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	p, err := photo.Prepare(filename, data, m.limits)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.at(op, StepPhoto); err != nil {
		return err
	}
	m.draft.photo = &p
	return nil
}

func (m *Machine) SetContact(c Contact) error {
	const op = "capture.Machine.SetContact"

	if c.Anonymous {
		c.Name, c.Contact = "", ""
	}
	if err := validator.Check(c); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.at(op, StepContact); err != nil {
		return err
	}
	m.draft.contact = c
	m.draft.contactOK = true
	return nil
}

// Next moves forward when the current step's guard passes.
func (m *Machine) Next() (Step, error) {
	const op = "capture.Machine.Next"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.at(op, m.step); err != nil {
		return m.step, err
	}
	if m.step == StepReview {
		return m.step, fmt.Errorf("%s: %w: submit to finish the report", op, e.ErrWrongStep)
	}
	if err := m.guard(); err != nil {
		return m.step, err
	}

	next, _ := neighbour(m.steps, m.step, 1)
	m.leave()
	m.step = next
	return next, nil
}

// Back is always allowed and keeps everything entered so far.
func (m *Machine) Back() (Step, error) {
	const op = "capture.Machine.Back"

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.at(op, m.step); err != nil {
		return m.step, err
	}
	prev, ok := neighbour(m.steps, m.step, -1)
	if !ok {
		return m.step, nil
	}
	m.leave()
	m.step = prev
	return prev, nil
}

// guard checks the current step; mu held.
func (m *Machine) guard() error {
	d := m.draft
	switch m.step {
	case StepDetails:
		if d.details.HazardType == "" {
			return e.NewValidationError("hazard_type", "is required")
		}
		if d.details.Severity == "" {
			return e.NewValidationError("severity", "is required")
		}
	case StepLocation:
		if d.location == nil {
			if d.armed != nil {
				return e.NewValidationError("location", "confirm the selected point")
			}
			return e.NewValidationError("location", "is required")
		}
	case StepPhoto:
		if d.photo == nil {
			return e.NewValidationError("photo", "is required")
		}
	case StepContact:
		if !d.contactOK {
			return e.NewValidationError("contact", "choose anonymous or enter your details")
		}
		if !d.contact.Anonymous && d.contact.Name == "" {
			return e.NewValidationError("name", "is required unless reporting anonymously")
		}
	}
	return nil
}

// leave drops an unconfirmed marker and stops its lookup; mu held.
func (m *Machine) leave() {
	if m.step == StepLocation {
		m.cancelLookup()
		m.draft.armed = nil
	}
}

func (m *Machine) cancelLookup() {
	if m.draft.armed != nil {
		m.draft.armed.cancel()
	}
}

func (m *Machine) payload() domain.ReportPayload {
	d := m.draft
	p := domain.ReportPayload{
		HazardType:  d.details.HazardType,
		Severity:    d.details.Severity,
		Description: d.details.Description,
	}
	if d.location != nil {
		p.Location = *d.location
	}
	if d.photo != nil {
		p.Photo = *d.photo
	}
	switch {
	case m.identity != nil:
		p.Reporter = *m.identity
	case !d.contact.Anonymous:
		p.Reporter = domain.Reporter{Name: d.contact.Name, Contact: d.contact.Contact}
	}
	return p
}

// Submit hands the completed report to the submitter. The draft is cleared
// only once the submitter has durably accepted it; on error the machine stays
// on Review with everything intact.
func (m *Machine) Submit(ctx context.Context) (domain.SubmitResult, error) {
	const op = "capture.Machine.Submit"

	m.mu.Lock()
	if err := m.at(op, StepReview); err != nil {
		m.mu.Unlock()
		return domain.SubmitResult{}, err
	}
	p := m.payload()
	if err := validator.Check(p); err != nil {
		m.mu.Unlock()
		return domain.SubmitResult{}, err
	}
	m.submitting = true
	m.mu.Unlock()

	res, err := m.submitter.Submit(ctx, p)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false

	if err != nil {
		m.logger.Error("submission failed, draft kept", slog.String("op", op), slog.Any("error", err))
		return domain.SubmitResult{}, err
	}

	m.logger.Info("report submitted",
		slog.String("local_id", res.LocalID),
		slog.String("status", string(res.Status)))

	m.step = StepSubmitted
	res.Step = string(m.step)

	// Submitted is momentary: the machine starts over for the next report.
	m.resetLocked()
	return res, nil
}

func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetLocked()
}

func (m *Machine) resetLocked() {
	m.cancelLookup()
	m.draft = draft{}
	m.step = StepDetails
}
