// Package main publishes synthetic detection messages so the viewer can be
// exercised without the NCS pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gocv.io/x/gocv"

	"ncs-viewer-go/internal/codec"
	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/logging"
	"ncs-viewer-go/internal/models"
	"ncs-viewer-go/internal/samples"
	"ncs-viewer-go/internal/services/messaging"
)

const (
	flagNatsURL   = "nats-url"
	flagSubject   = "subject"
	flagImage     = "image"
	flagWidth     = "width"
	flagHeight    = "height"
	flagEncoding  = "encoding"
	flagObjects   = "object"
	flagFormat    = "format"
	flagRate      = "rate"
	flagCount     = "count"
	flagFrameID   = "frame-id"
	flagInference = "inference-ms"
)

func main() {
	app := &cli.App{
		Name:  "ncs-publisher",
		Usage: "publish sample detection messages to the viewer subject",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagNatsURL,
				EnvVars: []string{"NATS_URL"},
				Usage:   "NATS server `URL` (defaults to the viewer configuration)",
			},
			&cli.StringFlag{
				Name:    flagSubject,
				EnvVars: []string{"DETECTIONS_SUBJECT"},
				Value:   "movidius_ncs_stream.detected_objects",
				Usage:   "subject to publish on",
			},
			&cli.StringFlag{
				Name:    flagImage,
				Aliases: []string{"i"},
				Usage:   "load the frame from `FILE` instead of a generated pattern",
			},
			&cli.IntFlag{
				Name:  flagWidth,
				Value: 640,
				Usage: "generated frame width",
			},
			&cli.IntFlag{
				Name:  flagHeight,
				Value: 480,
				Usage: "generated frame height",
			},
			&cli.StringFlag{
				Name:  flagEncoding,
				Value: models.EncodingBGR8,
				Usage: "frame encoding",
			},
			&cli.StringSliceFlag{
				Name:    flagObjects,
				Aliases: []string{"o"},
				Usage:   "detection as name:probability:x:y:width:height (repeatable)",
			},
			&cli.StringFlag{
				Name:  flagFormat,
				Value: "json",
				Usage: "payload format (json or protobuf)",
			},
			&cli.Float64Flag{
				Name:  flagRate,
				Value: 10,
				Usage: "messages per second",
			},
			&cli.IntFlag{
				Name:  flagCount,
				Value: 0,
				Usage: "stop after `N` messages (0 runs until interrupted)",
			},
			&cli.StringFlag{
				Name:  flagFrameID,
				Value: "camera",
				Usage: "header frame id",
			},
			&cli.Float64Flag{
				Name:  flagInference,
				Value: 0,
				Usage: "inference time reported with each message",
			},
		},
		Action: publishAction,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Publisher failed")
	}
}

func publishAction(c *cli.Context) error {
	cfg := config.Load()
	logging.Setup(cfg)
	if url := c.String(flagNatsURL); url != "" {
		cfg.NatsURL = url
	}

	if c.Float64(flagRate) <= 0 {
		return fmt.Errorf("--%s must be positive", flagRate)
	}

	enc, err := codec.ForFormat(c.String(flagFormat))
	if err != nil {
		return err
	}

	img, err := loadImage(c)
	if err != nil {
		return err
	}

	var objects []models.ObjectInBox
	for _, s := range c.StringSlice(flagObjects) {
		obj, err := samples.ParseObject(s)
		if err != nil {
			return err
		}
		objects = append(objects, obj)
	}
	if len(objects) == 0 {
		objects = append(objects, models.ObjectInBox{
			Object: models.Object{Name: "person", Probability: 0.873},
			ROI: models.RegionOfInterest{
				XOffset: img.Width / 2,
				YOffset: img.Height / 2,
				Width:   img.Width / 3,
				Height:  img.Height / 2,
			},
		})
	}

	bus, err := messaging.NewService(cfg, "ncs-publisher")
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subject := c.String(flagSubject)
	count := c.Int(flagCount)
	log.Info().
		Str("subject", subject).
		Str("encoding", img.Encoding).
		Str("format", enc.ContentType()).
		Int("objects", len(objects)).
		Msg("Publishing detections")

	ticker := time.NewTicker(time.Duration(float64(time.Second) / c.Float64(flagRate)))
	defer ticker.Stop()

	sent := 0
loop:
	for count == 0 || sent < count {
		msg := samples.Message(c.String(flagFrameID), img, objects, float32(c.Float64(flagInference)), time.Now())
		payload, err := enc.Marshal(msg)
		if err != nil {
			return err
		}
		if err := bus.Publish(subject, payload, enc.ContentType()); err != nil {
			log.Warn().Err(err).Msg("Publish failed")
		} else {
			sent++
		}

		select {
		case <-ctx.Done():
			break loop
		case <-ticker.C:
		}
	}

	if err := bus.Flush(5 * time.Second); err != nil {
		log.Warn().Err(err).Msg("Flush failed")
	}
	log.Info().Int("sent", sent).Msg("Publisher finished")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return bus.Shutdown(shutdownCtx)
}

func loadImage(c *cli.Context) (models.Image, error) {
	encoding := c.String(flagEncoding)

	path := c.String(flagImage)
	if path == "" {
		return samples.Gradient(c.Int(flagWidth), c.Int(flagHeight), encoding)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return models.Image{}, fmt.Errorf("failed to read image %s", path)
	}
	defer mat.Close()

	return samples.FromMat(mat, encoding)
}
