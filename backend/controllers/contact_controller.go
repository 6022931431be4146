package controllers

import (
	"errors"
	"log"

	"skillnexis/backend/config"
	"skillnexis/backend/models"
	"skillnexis/backend/services"
	"skillnexis/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type ContactController struct {
	Contact *services.ContactService
	Cfg     *config.Config
	Logger  *log.Logger
}

func NewContactController(contact *services.ContactService, cfg *config.Config, logger *log.Logger) *ContactController {
	return &ContactController{Contact: contact, Cfg: cfg, Logger: logger}
}

// [+] SendMessage godoc
// @Summary Relay a contact form message to the team inbox
// @Tags contact
// @Accept json
// @Produce json
// @Param message body models.ContactMessage true "Contact form"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /contact [post]
func (cc *ContactController) SendMessage(c *fiber.Ctx) error {
	var msg models.ContactMessage
	if err := parseBody(c, &msg); err != nil {
		return err
	}

	id, err := cc.Contact.Submit(c.UserContext(), msg)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return utils.BadRequest(c, verr.Message)
		}
		return utils.InternalServerError(c, "Failed to send email. Please try again later.")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"message":   "Email sent successfully",
		"messageId": id,
	})
}
