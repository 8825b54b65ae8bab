package commands

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Aria-Ghojavand/shamsy-calendar/internal/calendar"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/config"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/holidays"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/logger"
	"github.com/Aria-Ghojavand/shamsy-calendar/internal/server"
	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
	"github.com/Aria-Ghojavand/shamsy-calendar/persian"
)

// app carries what every command needs once configuration is loaded.
type app struct {
	cfg       *config.Config
	logger    *logger.Logger
	calendar  *jalali.Converter
	reference *time.Location
	now       func() time.Time

	noHolidays bool
	noColor    bool
}

type Option func(*app)

// WithClock replaces time.Now, which picks the month shown by default.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// NewRootCommand builds the shamsy command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}

	var gregorian, showHolidays bool

	rootCmd := &cobra.Command{
		Use:   "shamsy [year] [month]",
		Short: "Shamsi (Jalali) calendar in the terminal",
		Long: `Show Shamsi or Gregorian calendars with Iranian public holidays,
convert dates between the two calendars and serve conversions over HTTP.`,
		Example: `  shamsy                        # current Shamsi month
  shamsy -g                     # current Gregorian month
  shamsy 1404                   # all months of Shamsi year 1404
  shamsy -g 2025 10             # Gregorian October 2025
  shamsy 1404 7 --show-holidays # Shamsi month 7 and its holidays`,
		Args:              cobra.MaximumNArgs(2),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			return a.runCalendar(cmd, args, gregorian, showHolidays)
		}),
	}

	rootCmd.PersistentFlags().BoolVar(&a.noHolidays, "no-holidays", false, "Do not download holiday data")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	rootCmd.Flags().BoolVarP(&gregorian, "gregorian", "g", false, "Use Gregorian calendar instead of Shamsi")
	rootCmd.Flags().BoolVar(&showHolidays, "show-holidays", false, "List the holidays of the selected month")

	rootCmd.AddCommand(a.newConvertCommand())
	rootCmd.AddCommand(a.newServeCommand())

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.noHolidays {
		cfg.Holidays.Enabled = false
	}

	rule, err := cfg.Calendar.Rule()
	if err != nil {
		return err
	}
	ref, err := cfg.Calendar.Reference()
	if err != nil {
		return err
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	a.cfg = cfg
	a.logger = appLogger
	a.calendar = jalali.New(jalali.WithLeapRule(rule))
	a.reference = ref
	return nil
}

// closing wraps a command body so the logger is flushed on every exit
// path, including a failed run.
func (a *app) closing(run func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if err != nil {
				a.logger.WithError(err).Debugw("Command failed", "command", cmd.Name())
			}
			_ = a.logger.Close()
		}()
		return run(cmd, args)
	}
}

func (a *app) holidaySource(cmd *cobra.Command) (holidays.Source, error) {
	if !a.cfg.Holidays.Enabled {
		return nil, nil
	}
	cacheDir, err := a.cfg.Holidays.CachePath()
	if err != nil {
		return nil, err
	}
	return holidays.NewClient(a.cfg.Holidays.APIURL,
		holidays.WithCacheDir(cacheDir),
		holidays.WithHTTPClient(&http.Client{Timeout: a.cfg.Holidays.Timeout}),
		holidays.WithProgress(cmd.ErrOrStderr()),
		holidays.WithLogger(a.logger.WithComponent("holidays")),
	), nil
}

// loadHolidays fetches holidays for the Jalali year, or for every Jalali
// year touching a Gregorian year when gregorian is set. A failed
// download only costs the highlighting.
func (a *app) loadHolidays(cmd *cobra.Command, year int, gregorian bool) holidays.Holidays {
	src, err := a.holidaySource(cmd)
	if err != nil {
		a.logger.WithError(err).Warnw("Holidays unavailable")
		return holidays.Holidays{}
	}
	if src == nil {
		return holidays.Holidays{}
	}

	var h holidays.Holidays
	if gregorian {
		h, err = holidays.FetchSpan(cmd.Context(), src, year)
	} else {
		h, err = src.Fetch(cmd.Context(), year)
	}
	if err != nil {
		a.logger.WithError(err).Warnw("Error fetching holidays", "year", year)
		return holidays.Holidays{}
	}
	return h
}

func (a *app) renderer(cmd *cobra.Command, h holidays.Holidays) *calendar.Renderer {
	return calendar.NewRenderer(cmd.OutOrStdout(),
		calendar.WithColor(!a.noColor),
		calendar.WithHolidays(h),
		calendar.WithCalendar(a.calendar),
	)
}

func (a *app) runCalendar(cmd *cobra.Command, args []string, gregorian, showHolidays bool) error {
	nums := make([]int, len(args))
	for i, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid year or month argument %q", arg)
		}
		nums[i] = n
	}
	if len(nums) == 2 && nums[1] > 12 {
		return fmt.Errorf("invalid month %d", nums[1])
	}

	switch len(nums) {
	case 0:
		now := a.now().In(a.reference)
		today, err := a.calendar.FromTime(now)
		if err != nil {
			return err
		}
		if gregorian {
			r := a.renderer(cmd, a.loadHolidays(cmd, now.Year(), true))
			return r.GregorianMonth(now.Year(), int(now.Month()), now.Day())
		}
		r := a.renderer(cmd, a.loadHolidays(cmd, today.Year, false))
		return r.JalaliMonth(today.Year, today.Month, today.Day)
	case 1:
		if gregorian {
			return a.renderer(cmd, a.loadHolidays(cmd, nums[0], true)).GregorianYear(nums[0])
		}
		return a.renderer(cmd, a.loadHolidays(cmd, nums[0], false)).JalaliYear(nums[0])
	}

	year, month := nums[0], nums[1]
	if gregorian {
		r := a.renderer(cmd, a.loadHolidays(cmd, year, true))
		if err := r.GregorianMonth(year, month, 0); err != nil {
			return err
		}
		if showHolidays {
			r.GregorianHolidays(year, month)
		}
		return nil
	}
	r := a.renderer(cmd, a.loadHolidays(cmd, year, false))
	if err := r.JalaliMonth(year, month, 0); err != nil {
		return err
	}
	if showHolidays {
		r.JalaliHolidays(year, month)
	}
	return nil
}

func (a *app) newConvertCommand() *cobra.Command {
	var gregorian bool

	cmd := &cobra.Command{
		Use:   "convert DATE",
		Short: "Convert a date between the Shamsi and Gregorian calendars",
		Long: `Convert a Shamsi date to Gregorian, or a Gregorian date to Shamsi with -g.
DATE may be written as YYYY/MM/DD, YYYY-MM-DD or YYYY.MM.DD.`,
		Example: `  shamsy convert 1403/09/15
  shamsy convert -g 2024-12-05`,
		Args: cobra.ExactArgs(1),
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			y, m, d, err := persian.ParseDate(args[0])
			if err != nil {
				return fmt.Errorf("invalid date %q, expected YYYY/MM/DD, YYYY-MM-DD or YYYY.MM.DD: %w", args[0], err)
			}

			var conv calendar.Conversion
			if gregorian {
				conv.FromGregorian = true
				conv.Jalali, err = a.calendar.FromGregorian(y, m, d)
				if err != nil {
					return err
				}
				conv.Gregorian = time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
			} else {
				conv.Jalali = jalali.Date{Year: y, Month: m, Day: d}
				conv.Gregorian, err = a.calendar.ToTime(conv.Jalali, 0, 0, 0, 0, time.UTC)
				if err != nil {
					return err
				}
			}

			a.renderer(cmd, a.loadHolidays(cmd, conv.Jalali.Year, false)).Conversion(conv)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&gregorian, "gregorian", "g", false, "Treat DATE as Gregorian")
	return cmd
}

func (a *app) newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the conversion HTTP server",
		Args:  cobra.NoArgs,
		RunE: a.closing(func(cmd *cobra.Command, args []string) error {
			var opts []server.Option
			src, err := a.holidaySource(cmd)
			if err != nil {
				return err
			}
			if src != nil {
				opts = append(opts, server.WithHolidays(src))
			}

			srv, err := server.New(a.cfg, a.logger, opts...)
			if err != nil {
				return fmt.Errorf("failed to initialize server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(a.cfg.Server.Address())
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Infow("Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			a.logger.Infow("Server exited gracefully")
			return nil
		}),
	}
}
