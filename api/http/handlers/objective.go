package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/artem13815/resumepay/api/http/presenter"
	"github.com/artem13815/resumepay/pkg/resume"
)

type ObjectiveHandler struct {
	svc resume.DraftService
	log *zap.Logger
}

func NewObjectiveHandler(svc resume.DraftService, log *zap.Logger) *ObjectiveHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ObjectiveHandler{svc: svc, log: log.Named("http.objective")}
}

// Draft suggests an objective paragraph for the submitted resume.
// @Summary Предложить текст объектива
// @Description Генерирует черновик раздела «Objetivo» через LLM. Заказы не затрагиваются.
// @Tags    Резюме
// @Accept  json
// @Produce json
// @Param   body body resume.ResumeData true "Данные резюме"
// @Success 200 {object} resume.DraftResult
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 503 {object} presenter.ErrorResponse "LLM не настроена"
// @Router  /objective/draft [post]
func (h *ObjectiveHandler) Draft(c *fiber.Ctx) error {
	var data resume.ResumeData
	if err := c.BodyParser(&data); err != nil {
		return presenter.Error(c, http.StatusBadRequest, "invalid JSON body")
	}
	res, err := h.svc.DraftObjective(c.UserContext(), data)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return presenter.JSON(c, http.StatusOK, res)
}
