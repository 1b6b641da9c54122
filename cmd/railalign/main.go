// Command railalign runs the camera-to-framebuffer rail alignment overlay
// loop on the target single-board computer.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/tablerail/railalign/internal/pipeline"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("signal received, stopping pipeline")
		cancel()
	}()

	cfg := pipeline.FromEnv()
	driver := pipeline.New(cfg)

	if err := driver.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("railalign: %v", err)
	}
}
