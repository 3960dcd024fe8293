package server

import (
	"fmt"

	"creatrends/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	demoSeed     = 12345
	demoProvider = "demo"
	demoVariants = 3
)

// creativeHandler returns placeholder variants, no image model is called
func creativeHandler(c *fiber.Ctx) error {
	prompt := c.FormValue("prompt", c.Query("prompt"))

	fields := log.Fields{
		"prompt_length": len(prompt),
	}
	if file, err := c.FormFile("image_file"); err == nil {
		fields["image_file"] = file.Filename
		fields["image_size"] = file.Size
	}
	log.WithFields(fields).Info("Generate creative")

	variants := make([]models.CreativeVariant, 0, demoVariants)
	for i := 1; i <= demoVariants; i++ {
		variants = append(variants, models.CreativeVariant{
			Url: fmt.Sprintf("https://picsum.photos/seed/demo%d/768/1024", i),
		})
	}

	return c.JSON(models.CreativeResult{
		Id:       uuid.NewString(),
		Variants: variants,
		Seed:     demoSeed,
		Provider: demoProvider,
	})
}
