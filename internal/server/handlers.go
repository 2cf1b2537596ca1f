package server

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/litescript/ls-natal/internal/ephem"
	"github.com/litescript/ls-natal/internal/form"
)

type handler struct {
	provider ephem.Provider
	now      func() time.Time
	messages form.Messages
}

// validationDetail is one entry of a 422 response.
type validationDetail struct {
	Loc []string `json:"loc"`
	Msg string   `json:"msg"`
}

func (h *handler) health(c *fiber.Ctx) error {
	status, err := h.provider.Health(c.UserContext())
	if err != nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	}
	out := fiber.Map{"service": "ls-natal"}
	for k, v := range status {
		out[k] = v
	}
	return c.JSON(out)
}

func (h *handler) chart(c *fiber.Ctx) error {
	var in form.Input
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": []validationDetail{{Loc: []string{"body"}, Msg: "request body must be a JSON object"}},
		})
	}

	if errs := form.Validate(in, h.now()); len(errs) > 0 {
		details := make([]validationDetail, 0, len(errs))
		for _, f := range errs.Fields() {
			details = append(details, validationDetail{
				Loc: []string{"body", string(f)},
				Msg: h.messages.Text(errs[f].Code),
			})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"detail": details})
	}

	p, err := h.provider.GenerateChart(c.UserContext(), ephem.NewChartRequest(in))
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "chart calculation failed: "+err.Error())
	}
	return c.JSON(p)
}
