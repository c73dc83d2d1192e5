package controller

import (
	"strings"

	"capsule-labeling-be/internal/dto"
	"capsule-labeling-be/internal/pkg/serverutils"
	"capsule-labeling-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, middleware ...fiber.Handler)
	Start(ctx *fiber.Ctx) error
	End(ctx *fiber.Ctx) error
	ApplyFilter(ctx *fiber.Ctx) error
	Current(ctx *fiber.Ctx) error
	Next(ctx *fiber.Ctx) error
	Prev(ctx *fiber.Ctx) error
	SetLabels(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	Facets(ctx *fiber.Ctx) error
	Anomalies(ctx *fiber.Ctx) error
	FrameImage(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, middleware ...fiber.Handler) {
	h := r.Group("/labeling/v1/sessions", middleware...)
	h.Post("", c.Start)
	h.Delete(":id", c.End)
	h.Post(":id/filter", c.ApplyFilter)
	h.Get(":id/current", c.Current)
	h.Post(":id/next", c.Next)
	h.Post(":id/prev", c.Prev)
	h.Put(":id/labels/:frame", c.SetLabels)
	h.Post(":id/commit", c.Commit)
	h.Get(":id/stats", c.Stats)
	h.Get(":id/facets", c.Facets)
	h.Get(":id/anomalies", c.Anomalies)
	h.Get(":id/frames/:frame/image", c.FrameImage)
}

func (c *sessionController) Start(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.ErrBadRequest("Invalid request body")
		}
	}
	annotator := serverutils.UserID(ctx, req.Annotator)

	res, err := c.service.Start(ctx.UserContext(), annotator)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session started", res))
}

func (c *sessionController) End(ctx *fiber.Ctx) error {
	if err := c.service.End(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session ended", nil))
}

func (c *sessionController) ApplyFilter(ctx *fiber.Ctx) error {
	var req dto.FilterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrBadRequest("Invalid request body")
	}
	// the labeling UI sends "All" / "Labeled" / "Unlabeled"
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ApplyFilter(ctx.UserContext(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success apply filter", res))
}

func (c *sessionController) Current(ctx *fiber.Ctx) error {
	res, err := c.service.Current(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get current frame", res))
}

func (c *sessionController) Next(ctx *fiber.Ctx) error {
	res, err := c.service.Navigate(ctx.UserContext(), ctx.Params("id"), service.DirectionNext)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move to next frame", res))
}

func (c *sessionController) Prev(ctx *fiber.Ctx) error {
	res, err := c.service.Navigate(ctx.UserContext(), ctx.Params("id"), service.DirectionPrev)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success move to previous frame", res))
}

func (c *sessionController) SetLabels(ctx *fiber.Ctx) error {
	var req dto.SetLabelsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.ErrBadRequest("Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetLabels(ctx.UserContext(), ctx.Params("id"), ctx.Params("frame"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set labels", res))
}

func (c *sessionController) Commit(ctx *fiber.Ctx) error {
	res, err := c.service.Commit(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	message := "Labels committed"
	if res.Changed == 0 {
		message = "Nothing to commit"
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *sessionController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get stats", res))
}

func (c *sessionController) Facets(ctx *fiber.Ctx) error {
	res, err := c.service.Facets(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get facets", res))
}

func (c *sessionController) Anomalies(ctx *fiber.Ctx) error {
	res, err := c.service.Anomalies(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check consistency", res))
}

func (c *sessionController) FrameImage(ctx *fiber.Ctx) error {
	img, err := c.service.FrameImage(ctx.UserContext(), ctx.Params("id"), ctx.Params("frame"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, img.ContentType)
	ctx.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return ctx.Send(img.Data)
}
