package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/couchcryptid/utility-hub/internal/adapter/httpadapter"
	"github.com/couchcryptid/utility-hub/internal/domain"
	"github.com/couchcryptid/utility-hub/internal/engine"
	"github.com/spf13/cobra"
)

const sessionHelp = `commands:
  length <value> <from> <to>     e.g. length 5 km mi
  temp <value> <from> <to>       e.g. temp 98.6 F C
  bmi <height-m> <weight-kg>     e.g. bmi 1.75 70
  currency <value> <from> <to>   e.g. currency 100 EUR USD
  status                         show the currency rate status
  help                           show this help
  quit                           leave the session`

func sessionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Start an interactive conversion session",
		Long: "Start an interactive conversion session. Currency rates are fetched in the background;\n" +
			"a currency request made before they arrive is recomputed once they do.\n" +
			"Set HTTP_ADDR to expose /healthz, /readyz, /metrics, and /rates while the session runs.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			provider, closeSink := a.rateProvider()
			defer closeSink()

			var srv *httpadapter.Server
			if a.cfg.HTTPAddr != "" {
				srv = httpadapter.NewServer(a.cfg.HTTPAddr, provider, a.logger)
				go func() {
					if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("ops server error", "error", err)
					}
				}()
			}

			s := newSession(a.service(provider), provider, cmd.OutOrStdout())
			provider.Start(ctx)
			s.watchRates()

			err := s.run(ctx, cmd.InOrStdin())

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
			defer cancel()
			if srv != nil {
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("ops server shutdown error", "error", err)
				}
			}
			// Let an in-flight snapshot reach the sink before closing it.
			if _, err := provider.Wait(shutdownCtx); err != nil {
				a.logger.Warn("rate provider did not finish before shutdown", "error", err)
			}
			return err
		},
	}
}

// sessionCategories maps the two-unit session commands to their category.
var sessionCategories = map[string]domain.UnitCategory{
	"length":      domain.CategoryLength,
	"temp":        domain.CategoryTemperature,
	"temperature": domain.CategoryTemperature,
	"currency":    domain.CategoryCurrency,
	"cur":         domain.CategoryCurrency,
}

// session is the interactive presentation loop. Output from the user's
// commands and from the rate publication hook is serialized by mu.
type session struct {
	svc      *engine.Service
	provider *engine.RateProvider

	mu           sync.Mutex
	out          io.Writer
	lastCurrency *engine.ConversionRequest
	lastBMI      *engine.Result
}

func newSession(svc *engine.Service, provider *engine.RateProvider, out io.Writer) *session {
	return &session{svc: svc, provider: provider, out: out}
}

// watchRates recomputes the most recent currency request once rates are published.
func (s *session) watchRates() {
	s.provider.OnPublish(func(snap domain.RateSnapshot) {
		s.mu.Lock()
		defer s.mu.Unlock()

		fmt.Fprintf(s.out, "\n[rates] %s\n", snap.Status)
		if s.lastCurrency != nil {
			s.printResult(s.svc.Currency(*s.lastCurrency))
		}
	})
}

// run reads commands from in until quit, EOF, or ctx is cancelled.
func (s *session) run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
	}()

	s.prompt()
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			if s.handle(line) {
				return nil
			}
			s.prompt()
		}
	}
}

func (s *session) prompt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprint(s.out, "> ")
}

// handle executes one input line and reports whether the session should end.
func (s *session) handle(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	name, args := strings.ToLower(fields[0]), fields[1:]
	switch name {
	case "quit", "exit":
		return true
	case "help", "?":
		fmt.Fprintln(s.out, sessionHelp)
	case "status":
		fmt.Fprintln(s.out, s.provider.Status())
	case "bmi":
		if len(args) != 2 {
			fmt.Fprintln(s.out, "usage: bmi <height-m> <weight-kg>")
			return false
		}
		s.bmi(engine.BMIRequest{Height: args[0], Weight: args[1]})
	default:
		category, ok := sessionCategories[name]
		if !ok {
			fmt.Fprintf(s.out, "unknown command %q, type help\n", fields[0])
			return false
		}
		if len(args) != 3 {
			fmt.Fprintf(s.out, "usage: %s <value> <from> <to>\n", name)
			return false
		}
		req := engine.ConversionRequest{Input: args[0], From: args[1], To: args[2]}
		if category == domain.CategoryCurrency {
			s.lastCurrency = &req
		}
		res, err := s.svc.Convert(category, req)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.printResult(res)
	}
	return false
}

// bmi prints the classification. On failure the previous result stays on
// display next to the error placeholder.
func (s *session) bmi(req engine.BMIRequest) {
	res := s.svc.BMI(req)
	if res.OK() {
		s.lastBMI = &res
		fmt.Fprintln(s.out, describeBMI(res))
		return
	}
	fmt.Fprintln(s.out, res.Text)
	if s.lastBMI != nil {
		fmt.Fprintf(s.out, "last: %s\n", describeBMI(*s.lastBMI))
	}
}

func (s *session) printResult(res engine.Result) {
	for _, w := range res.Warnings {
		fmt.Fprintln(s.out, "warning:", w)
	}
	fmt.Fprintln(s.out, res.Text)
}
