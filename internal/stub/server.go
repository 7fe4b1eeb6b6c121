// Package stub is an in-memory stand-in for the operations backend. It
// speaks the same {data: T} envelope and bearer-token handshake the real
// service does, but keeps every row in process memory: restarting the
// process resets the world. It exists so the dashboard client can be
// developed and demonstrated without network access to the production API.
package stub

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/opsdeskhq/opsdesk/internal/domain/model"
)

// Options configures the stub backend.
type Options struct {
	// JWTSecret signs the HS256 tokens login hands out. Required.
	JWTSecret string
	// TokenTTL bounds token lifetime. Zero means 12 hours.
	TokenTTL time.Duration
	// Seed loads the demo rows and the demo account.
	Seed   bool
	Logger *slog.Logger
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Server owns the in-memory stores and the handlers over them.
type Server struct {
	logger   *slog.Logger
	validate *validator.Validate
	accounts *accountStore
	tokens   *tokenIssuer
	now      func() time.Time

	employees  *memStore[model.Employee]
	benefits   *memStore[model.Benefit]
	onboarding *memStore[model.Onboarding]
	postings   *memStore[model.JobPosting]
	absences   *memStore[model.Absence]
	devices    *memStore[model.Device]
	tickets    *memStore[model.Ticket]
}

// NewServer builds a stub backend, optionally seeded with demo data.
func NewServer(opts Options) (*Server, error) {
	if strings.TrimSpace(opts.JWTSecret) == "" {
		return nil, errors.New("stub: jwt secret is required")
	}

	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		logger:   logger,
		validate: validator.New(),
		accounts: newAccountStore(),
		tokens:   &tokenIssuer{secret: []byte(opts.JWTSecret), ttl: ttl, now: now},
		now:      now,

		employees:  newMemStore(stampEmployee),
		benefits:   newMemStore(stampBenefit),
		onboarding: newMemStore(stampOnboarding),
		postings:   newMemStore(stampPosting),
		absences:   newMemStore(stampAbsence),
		devices:    newMemStore(stampDevice),
		tickets:    newMemStore(stampTicket),
	}

	if opts.Seed {
		if err := s.seed(); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
	}
	return s, nil
}

// Router assembles the stub's routes behind its middleware chain. Everything
// under /api/hr/ and /api/it/ requires a bearer token; the auth endpoints do
// not.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	protected := http.NewServeMux()
	protected.HandleFunc("GET /api/hr/employees", listOf(s.employees))
	protected.HandleFunc("POST /api/hr/employees", createOf(s, s.employees, buildEmployee))
	protected.HandleFunc("GET /api/hr/benefits", listOf(s.benefits))
	protected.HandleFunc("POST /api/hr/benefits", createOf(s, s.benefits, buildBenefit))
	protected.HandleFunc("GET /api/hr/onboarding", listOf(s.onboarding))
	protected.HandleFunc("POST /api/hr/onboarding", createOf(s, s.onboarding, buildOnboarding))
	protected.HandleFunc("GET /api/hr/recruitment", listOf(s.postings))
	protected.HandleFunc("POST /api/hr/recruitment", createOf(s, s.postings, buildPosting))
	protected.HandleFunc("GET /api/hr/absences", listOf(s.absences))
	protected.HandleFunc("POST /api/hr/absences", createOf(s, s.absences, buildAbsence))
	protected.HandleFunc("GET /api/it/devices", listOf(s.devices))
	protected.HandleFunc("GET /api/it/tickets", listOf(s.tickets))
	protected.HandleFunc("POST /api/it/tickets", createOf(s, s.tickets, buildTicket))
	protected.HandleFunc("GET /api/it/overview", s.handleOverview)

	guarded := requireToken(s.tokens)(protected)
	mux.Handle("/api/hr/", guarded)
	mux.Handle("/api/it/", guarded)

	var handler http.Handler = mux
	handler = logging(s.logger)(handler)
	handler = requestID()(handler)
	handler = recoverer(s.logger)(handler)
	return handler
}

// timestamp renders the shared RFC 3339 stamp stored rows carry.
func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// Stamp hooks fill the fields the backend owns: ids, create/update stamps,
// and initial statuses.

func stampEmployee(e model.Employee, id int, now string) model.Employee {
	e.ID = id
	if e.Status == "" {
		e.Status = model.EmployeeStatusActive
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	return e
}

func stampBenefit(b model.Benefit, id int, now string) model.Benefit {
	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return b
}

func stampOnboarding(o model.Onboarding, id int, now string) model.Onboarding {
	o.ID = id
	if o.Status == "" {
		o.Status = model.OnboardingStatusNotStarted
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	return o
}

func stampPosting(p model.JobPosting, id int, now string) model.JobPosting {
	p.ID = id
	if p.Status == "" {
		p.Status = model.PostingStatusOpen
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	return p
}

func stampAbsence(a model.Absence, id int, now string) model.Absence {
	a.ID = id
	if a.Status == "" {
		a.Status = model.AbsenceStatusPending
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	return a
}

func stampDevice(d model.Device, id int, now string) model.Device {
	d.ID = id
	if d.Status == "" {
		d.Status = model.DeviceStatusInStorage
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	return d
}

func stampTicket(t model.Ticket, id int, now string) model.Ticket {
	t.ID = id
	if t.Status == "" {
		t.Status = model.TicketStatusOpen
	}
	if t.Priority == "" {
		t.Priority = model.TicketPriorityMedium
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	return t
}
