package main

import (
	"carebook/cmd/internal/config"
	"carebook/cmd/internal/domain/db"
	"carebook/cmd/internal/domain/db/repository"
	"carebook/cmd/internal/middleware"
	"carebook/cmd/internal/routes"
	"carebook/cmd/internal/service"
	"carebook/cmd/internal/utils/validators"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "carebook",
		Short:        "Doctor appointment scheduling API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if _, err := db.Init(cfg); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Infof("schema is up to date (%s)", cfg.DB.Driver)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var doctor service.CreateDoctorRequest
	var patient service.CreatePatientRequest

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Register a doctor and/or a patient",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			gdb, err := db.Init(cfg)
			if err != nil {
				return err
			}

			dir := service.NewDirectoryService(repository.NewDoctorRepository(gdb), repository.NewPatientRepository(gdb), validators.New())
			ctx := cmd.Context()

			if doctor.Email != "" {
				resp, apierr := dir.CreateDoctor(ctx, &doctor)
				if apierr != nil {
					return apierr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "doctor  %s  %s\n", resp.ID, resp.Email)
			}
			if patient.Email != "" {
				resp, apierr := dir.CreatePatient(ctx, &patient)
				if apierr != nil {
					return apierr
				}
				fmt.Fprintf(cmd.OutOrStdout(), "patient %s  %s\n", resp.ID, resp.Email)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&doctor.Name, "doctor-name", "", "doctor display name")
	cmd.Flags().StringVar(&doctor.Email, "doctor-email", "", "doctor email")
	cmd.Flags().StringVar(&doctor.Specialization, "doctor-specialization", "", "doctor specialization")
	cmd.Flags().StringVar(&patient.Name, "patient-name", "", "patient display name")
	cmd.Flags().StringVar(&patient.Email, "patient-email", "", "patient email")
	cmd.Flags().StringVar(&patient.Phone, "patient-phone", "", "patient phone, E.164")
	return cmd
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", err)
	}

	accessLog := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if cfg.IsDev() {
		accessLog = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
		log.SetLevel(log.DEBUG)
	}

	gdb, err := db.Init(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(accessLog))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{AllowOrigins: cfg.CORSOrigins}))
	e.Use(echomw.ContextTimeoutWithConfig(echomw.ContextTimeoutConfig{Timeout: cfg.RequestTimeout}))
	if cfg.AuthEnabled() {
		e.Use(middleware.Auth(middleware.AuthConfig{
			Secret: []byte(cfg.Auth.JWTSecret),
			Issuer: cfg.Auth.Issuer,
			Skip:   []string{"/healthz"},
		}))
	} else {
		log.Warn("AUTH_JWT_SECRET is not set, requests are not authenticated")
	}

	routes.Register(e, buildRoutes(gdb))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func buildRoutes(gdb *gorm.DB) *routes.Routes {
	validate := validators.New()

	// Getting repositories
	apptRepo := repository.NewAppointmentRepository(gdb)
	doctorRepo := repository.NewDoctorRepository(gdb)
	patientRepo := repository.NewPatientRepository(gdb)
	schedRepo := repository.NewScheduleRepository(gdb)

	// Getting services
	availService := service.NewAvailabilityService(schedRepo, apptRepo, doctorRepo)
	apptService := service.NewAppointmentService(apptRepo, doctorRepo, patientRepo, availService, validate)
	schedService := service.NewScheduleService(schedRepo, doctorRepo, validate)
	dirService := service.NewDirectoryService(doctorRepo, patientRepo, validate)

	return &routes.Routes{
		Appointments: routes.NewAppointmentDefault(apptService),
		Availability: routes.NewAvailabilityDefault(availService),
		Schedules:    routes.NewScheduleDefault(schedService),
		Directory:    routes.NewDirectoryDefault(dirService),
		Ping:         func(ctx context.Context) error { return db.Ping(ctx, gdb) },
	}
}
