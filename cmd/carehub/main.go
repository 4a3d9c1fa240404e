// Command carehub runs the CareHub caretaking coordination server: the JSON
// API, the realtime socket at /ws and the appointment reminder scanner.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/carehub/internal/app/bootstrap"
	"github.com/dalemusser/waffle/app"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
