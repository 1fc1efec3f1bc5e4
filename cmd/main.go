package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"regscrape/cmd/controllers"
	"regscrape/internal/config"
	"regscrape/internal/repo"
	"regscrape/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

const defaultConfigPath = "secrets.json"

func main() {
	once := flag.Bool("once", false, "run one scrape and exit; non-zero exit on failure")
	flag.Parse()

	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = defaultConfigPath
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := repo.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}

	if err := repo.Migrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	docketService, err := services.NewDocketService(db)
	if err != nil {
		log.Fatalf("create docket service: %v", err)
	}

	logService, err := services.NewLogService(db)
	if err != nil {
		log.Fatalf("create log service: %v", err)
	}

	regulationsService, err := services.NewRegulationsService(cfg.APIKey, cfg.APIBaseURL, cfg.PageSize, logService, nil)
	if err != nil {
		log.Fatalf("create regulations service: %v", err)
	}
	if err := regulationsService.SetJitter(
		time.Duration(cfg.MinDelaySeconds)*time.Second,
		time.Duration(cfg.MaxDelaySeconds)*time.Second,
	); err != nil {
		log.Fatalf("set request jitter: %v", err)
	}

	dataService, err := services.NewDataService(db, logService)
	if err != nil {
		log.Fatalf("create data service: %v", err)
	}

	csvService, err := services.NewCsvService(cfg.OutputDir, cfg.ChunkSize, logService)
	if err != nil {
		log.Fatalf("create csv service: %v", err)
	}

	xlsxService, err := services.NewXlsxService(cfg.OutputDir, logService)
	if err != nil {
		log.Fatalf("create xlsx service: %v", err)
	}

	archiveService, err := services.NewArchiveService(cfg.OutputDir, logService)
	if err != nil {
		log.Fatalf("create archive service: %v", err)
	}

	exportService, err := services.NewExportService(db)
	if err != nil {
		log.Fatalf("create export service: %v", err)
	}

	pipelineService, err := services.NewPipelineService(
		docketService,
		regulationsService,
		dataService,
		csvService,
		xlsxService,
		archiveService,
		exportService,
		logService,
		cfg.WindowDays,
		cfg.ExportXlsx,
	)
	if err != nil {
		log.Fatalf("create pipeline service: %v", err)
	}

	if *once {
		if err := pipelineService.Run(context.Background()); err != nil {
			log.Fatalf("scrape run: %v", err)
		}
		return
	}

	docketsController, err := controllers.NewDocketsController(docketService)
	if err != nil {
		log.Fatalf("create dockets controller: %v", err)
	}

	logsController, err := controllers.NewLogsController(logService)
	if err != nil {
		log.Fatalf("create logs controller: %v", err)
	}

	scrapeController, err := controllers.NewScrapeController(pipelineService)
	if err != nil {
		log.Fatalf("create scrape controller: %v", err)
	}

	commentsController, err := controllers.NewCommentsController(dataService)
	if err != nil {
		log.Fatalf("create comments controller: %v", err)
	}

	exportsController, err := controllers.NewExportsController(exportService)
	if err != nil {
		log.Fatalf("create exports controller: %v", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if err := controllers.RegisterHealthRoutes(router); err != nil {
		log.Fatalf("register health routes: %v", err)
	}
	if err := docketsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register dockets routes: %v", err)
	}
	if err := logsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register logs routes: %v", err)
	}
	if err := scrapeController.RegisterRoutes(router); err != nil {
		log.Fatalf("register scrape routes: %v", err)
	}
	if err := commentsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register comments routes: %v", err)
	}
	if err := exportsController.RegisterRoutes(router); err != nil {
		log.Fatalf("register exports routes: %v", err)
	}

	if err := startCron(pipelineService, cfg.CronSpec); err != nil {
		log.Fatalf("start cron: %v", err)
	}

	addr := ":8080"
	if err := router.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

type scrapeRunner interface {
	Run(ctx context.Context) error
}

func startCron(service scrapeRunner, spec string) error {
	if service == nil {
		return errors.New("pipeline service is nil")
	}
	if spec == "" {
		return errors.New("cron spec is empty")
	}

	scheduler := cron.New()

	if _, err := scheduler.AddFunc(spec, func() {
		if err := service.Run(context.Background()); err != nil {
			log.Printf("scrape run: %v", err)
		}
	}); err != nil {
		return err
	}

	scheduler.Start()
	return nil
}
