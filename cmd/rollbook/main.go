package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mparedes/rollbook/internal/api"
	"github.com/mparedes/rollbook/internal/app"
	"github.com/mparedes/rollbook/internal/config"
	"github.com/mparedes/rollbook/internal/export"
	"github.com/mparedes/rollbook/internal/logging"
	"github.com/mparedes/rollbook/internal/observability"
)

const usage = `uso: rollbook <comando> [flags]

comandos:
  save         guarda la asistencia de todo el curso para una fecha
  mark         marca presente/ausente y guarda
  percentages  muestra el porcentaje de asistencia por alumno
  grade        carga una nota para un alumno en una evaluación
  export       exporta la planilla de asistencia (o de notas) a .xlsx
`

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "sin archivo .env, usando variables de entorno")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logging:", err)
		os.Exit(1)
	}
	defer lg.Closer()

	closeSentry, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, "rollbook")
	if err != nil {
		lg.Sugar.Warnw("sentry init failed", "err", err)
	}
	defer closeSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.APIBaseURL, cfg.APIToken, lg.Sugar)

	if cfg.HTTPAddr != "" {
		app.StartHTTP(ctx, cfg.HTTPAddr, client)
	}

	session := app.NewSession(client, lg.Sugar, cfg.Location, cfg.RefreshDelay)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	var runErr error
	switch os.Args[1] {
	case "save":
		runErr = runSave(ctx, session, os.Args[2:])
	case "mark":
		runErr = runMark(ctx, session, os.Args[2:])
	case "percentages":
		runErr = runPercentages(ctx, session, os.Args[2:])
	case "grade":
		runErr = runGrade(ctx, session, os.Args[2:])
	case "export":
		runErr = runExport(ctx, session, cfg.Location, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		os.Exit(1)
	}
}

func loadCourse(ctx context.Context, session *app.Session, courseID int64) error {
	if courseID <= 0 {
		return fmt.Errorf("falta -course")
	}
	session.Load(ctx, courseID)
	errs := session.Errors()
	if errs.Students != "" {
		return fmt.Errorf("%s", errs.Students)
	}
	for _, msg := range []string{errs.Attendances, errs.Evaluations, errs.Grades} {
		if msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}
	return nil
}

func runSave(ctx context.Context, session *app.Session, args []string) error {
	fs := flag.NewFlagSet("save", flag.ExitOnError)
	course := fs.Int64("course", 0, "id del curso")
	date := fs.String("date", "", "fecha YYYY-MM-DD (hoy si se omite)")
	_ = fs.Parse(args)

	if err := loadCourse(ctx, session, *course); err != nil {
		return err
	}
	if *date != "" {
		session.SetDate(*date)
	}
	rep := session.SaveAll(ctx)
	fmt.Printf("guardado: %d creadas, %d actualizadas, %d sin cambios\n",
		rep.Created, rep.Updated, rep.Skipped)
	if msg := rep.Message(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func runMark(ctx context.Context, session *app.Session, args []string) error {
	fs := flag.NewFlagSet("mark", flag.ExitOnError)
	course := fs.Int64("course", 0, "id del curso")
	date := fs.String("date", "", "fecha YYYY-MM-DD (hoy si se omite)")
	student := fs.Int64("student", 0, "id del alumno")
	absent := fs.Bool("absent", false, "marcar ausente en vez de presente")
	_ = fs.Parse(args)

	if *student <= 0 {
		return fmt.Errorf("falta -student")
	}
	if err := loadCourse(ctx, session, *course); err != nil {
		return err
	}
	if *date != "" {
		session.SetDate(*date)
	}
	session.Mark(*student, !*absent)
	rep := session.SaveAll(ctx)
	if msg := rep.Message(); msg != "" {
		return fmt.Errorf("%s", msg)
	}
	fmt.Printf("asistencia del %s guardada\n", session.Date())
	return nil
}

func runPercentages(ctx context.Context, session *app.Session, args []string) error {
	fs := flag.NewFlagSet("percentages", flag.ExitOnError)
	course := fs.Int64("course", 0, "id del curso")
	_ = fs.Parse(args)

	if err := loadCourse(ctx, session, *course); err != nil {
		return err
	}
	for _, st := range session.Students() {
		if st.ID == nil {
			continue
		}
		fmt.Printf("%-30s %6.1f%%\n", st.FullName(), session.Percentage(*st.ID))
	}
	return nil
}

func runGrade(ctx context.Context, session *app.Session, args []string) error {
	fs := flag.NewFlagSet("grade", flag.ExitOnError)
	course := fs.Int64("course", 0, "id del curso")
	student := fs.Int64("student", 0, "id del alumno")
	eval := fs.Int64("eval", 0, "id de la evaluación")
	value := fs.Float64("value", -1, "nota (0 a 10)")
	_ = fs.Parse(args)

	if *student <= 0 || *eval <= 0 {
		return fmt.Errorf("faltan -student y/o -eval")
	}
	if err := loadCourse(ctx, session, *course); err != nil {
		return err
	}
	if _, err := session.SetGrade(ctx, *student, *eval, *value); err != nil {
		return err
	}
	fmt.Println("nota guardada")
	return nil
}

func runExport(ctx context.Context, session *app.Session, loc *time.Location, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	course := fs.Int64("course", 0, "id del curso")
	out := fs.String("out", "", "ruta de salida (por defecto, nombre generado)")
	gradesSheet := fs.Bool("grades", false, "exportar notas en vez de asistencia")
	_ = fs.Parse(args)

	if err := loadCourse(ctx, session, *course); err != nil {
		return err
	}

	now := time.Now().In(loc)
	var (
		data []byte
		name string
		err  error
	)
	if *gradesSheet {
		f, werr := export.GradesWorkbook(session.Students(), session.Book())
		if werr != nil {
			return werr
		}
		data, err = export.Bytes(f)
		name = export.GradesFilename(*course, now)
	} else {
		f, werr := export.AttendanceWorkbook(session.Students(), session.View())
		if werr != nil {
			return werr
		}
		data, err = export.Bytes(f)
		name = export.AttendanceFilename(*course, now)
	}
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = name
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	fmt.Println("exportado:", path)
	return nil
}
