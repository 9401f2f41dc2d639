package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/MohsenMaaleki/windsightai/core"
	"github.com/MohsenMaaleki/windsightai/core/models"
	"github.com/MohsenMaaleki/windsightai/inference"
	"github.com/MohsenMaaleki/windsightai/infrastructure/communication"
	"github.com/MohsenMaaleki/windsightai/infrastructure/devops"
	"github.com/MohsenMaaleki/windsightai/infrastructure/filesystem"
	"github.com/MohsenMaaleki/windsightai/web/handlers"
)

func main() {
	cfg, err := devops.LoadConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	dm, err := openDatabase(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(); err != nil {
		logrus.Fatal(err)
	}

	detector := inference.NewClient(cfg.ModelURL, cfg.ModelTimeout)
	if err := detector.CheckHealth(context.Background()); err != nil {
		logrus.WithError(err).Warn("model service not reachable at startup")
	}

	orc := &core.Orchestrator{
		UploadDir: cfg.UploadDir,
		OutputDir: cfg.OutputDir,
		Detector:  detector,
	}

	if cfg.SlackToken != "" {
		alerts := communication.NewSlack(cfg.SlackToken, communication.SlackOption{
			InfoChannelID:  cfg.SlackInfoChannel,
			ErrorChannelID: cfg.SlackErrorChannel,
		})
		orc.OnAnalysisFailure = func(uploadID uint, err error) {
			msg := fmt.Sprintf("analysis failed for upload %d: %v", uploadID, err)
			if serr := alerts.Error(msg); serr != nil {
				logrus.WithError(serr).Warn("could not post slack alert")
			}
		}
		if err := alerts.Info(fmt.Sprintf("windsightai api starting on port %s", cfg.Port)); err != nil {
			logrus.WithError(err).Warn("could not post slack startup notice")
		}
	}

	if cfg.ArchiveBucket != "" {
		orc.OnRenderSaved = func(resultName, renderPath string) {
			go mirrorRender(cfg.ArchiveBucket, resultName, renderPath)
		}
	}

	ep := &handlers.Endpoint{
		Dm:       dm,
		Orc:      orc,
		Secret:   []byte(cfg.SigningSecret),
		TokenTTL: cfg.TokenTTL,
	}
	if cfg.WelcomeEmailFrom != "" {
		ep.OnRegister = func(account *models.Account) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := communication.SendWelcomeEmail(ctx, cfg.WelcomeEmailFrom, account.Email, account.Username); err != nil {
				logrus.WithError(err).WithField("account_id", account.ID).
					Warn("could not send welcome email")
			}
		}
	}

	if cfg.ExpirySweepSchedule != "" {
		c := cron.New()
		_, err := c.AddFunc(cfg.ExpirySweepSchedule, func() {
			err := dm.Exec(context.Background(), func(db *gorm.DB) error {
				_, err := core.ExpireOverdueSubscriptions(db, time.Now())
				return err
			})
			if err != nil {
				logrus.WithError(err).Error("subscription expiry sweep failed")
			}
		})
		if err != nil {
			logrus.Fatal(err)
		}
		c.Start()
		defer c.Stop()
	}

	r := gin.Default()

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	handlers.Register(r.Group("/api"), ep)

	r.Static("/uploads", cfg.UploadDir)
	r.Static("/output", cfg.OutputDir)

	if err := r.Run(":" + cfg.Port); err != nil {
		logrus.Fatal(err)
	}
}

// mirrorRender copies a finished render to the archive bucket so the
// local output directory can be pruned without losing results.
func mirrorRender(bucket, resultName, renderPath string) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	f, err := os.Open(renderPath)
	if err != nil {
		logrus.WithError(err).WithField("render", renderPath).Warn("could not open render for mirroring")
		return
	}
	defer f.Close()

	if err := filesystem.WriteFile(ctx, bucket, "output/"+resultName, f); err != nil {
		logrus.WithError(err).WithField("key", resultName).Warn("could not mirror render to s3")
	}
}

// openDatabase prefers the configured mysql DSN, then the SSM parameter,
// then falls back to the local sqlite file.
func openDatabase(cfg *devops.Config) (*core.DatabaseManager, error) {
	dsn := cfg.DSN
	if dsn == "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ssmDSN, err := devops.LoadDSNFromSSM(ctx)
		if err != nil {
			logrus.WithError(err).Info("no mysql DSN available, using sqlite")
			return core.NewSQLite(cfg.DatabasePath, core.LogLevelWarn)
		}
		dsn = ssmDSN
	}
	return core.NewMySQL(dsn, cfg.MaxConns, core.LogLevelWarn)
}
