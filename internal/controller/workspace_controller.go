package controller

import (
	"github.com/likhit-sai/CogniFlow/internal/dto"
	"github.com/likhit-sai/CogniFlow/internal/pkg/serverutils"
	"github.com/likhit-sai/CogniFlow/internal/service"

	"github.com/gofiber/fiber/v2"
)

// rootParam addresses the top level in /items/:id/children.
const rootParam = "root"

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router, guard fiber.Handler)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Children(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GetActive(ctx *fiber.Ctx) error
	SetActive(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	RetrySave(ctx *fiber.Ctx) error
	Organize(ctx *fiber.Ctx) error
	ApplyPlan(ctx *fiber.Ctx) error
	DiscardPlan(ctx *fiber.Ctx) error
	Assist(ctx *fiber.Ctx) error
	GeneratePresentation(ctx *fiber.Ctx) error
	Validate(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkspaceService
}

func NewWorkspaceController(service service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router, guard fiber.Handler) {
	h := r.Group("/workspace/v1")
	h.Use(guard)

	h.Get("/items", c.GetAll)
	h.Post("/items", c.Create)
	h.Get("/items/:id", c.Show)
	h.Get("/items/:id/children", c.Children)
	h.Patch("/items/:id", c.Update)
	h.Delete("/items/:id", c.Delete)
	h.Post("/items/:id/assist", c.Assist)

	h.Get("/active", c.GetActive)
	h.Put("/active", c.SetActive)

	h.Get("/status", c.Status)
	h.Post("/save/retry", c.RetrySave)

	h.Post("/organize", c.Organize)
	h.Post("/organize/:planId/apply", c.ApplyPlan)
	h.Delete("/organize/:planId", c.DiscardPlan)

	h.Post("/presentations/generate", c.GeneratePresentation)
	h.Get("/validate", c.Validate)
}

// GetAll returns the flat collection, the nested tree with ?tree=true, or the name
// search result with ?q=.
func (c *workspaceController) GetAll(ctx *fiber.Ctx) error {
	if ctx.Context().QueryArgs().Has("q") {
		res, err := c.service.Search(ctx.UserContext(), ctx.Query("q"))
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success search items", res))
	}

	if ctx.QueryBool("tree") {
		res, err := c.service.Tree(ctx.UserContext())
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Success get workspace tree", res))
	}

	res, err := c.service.List(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all items", res))
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	body := serverutils.SuccessResponse("Success create item", res)
	body.Code = fiber.StatusCreated
	return ctx.Status(fiber.StatusCreated).JSON(body)
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Show(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show item", res))
}

func (c *workspaceController) Children(ctx *fiber.Ctx) error {
	var parentId *string
	if id := ctx.Params("id"); id != rootParam {
		parentId = &id
	}

	res, err := c.service.Children(ctx.UserContext(), parentId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get children", res))
}

func (c *workspaceController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateItemRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.Id = ctx.Params("id")
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update item", res))
}

func (c *workspaceController) Delete(ctx *fiber.Ctx) error {
	res, err := c.service.Delete(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success delete item", res))
}

func (c *workspaceController) GetActive(ctx *fiber.Ctx) error {
	res, err := c.service.Active(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get active item", res))
}

func (c *workspaceController) SetActive(ctx *fiber.Ctx) error {
	var req dto.SetActiveRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := c.service.SetActive(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success set active item", res))
}

func (c *workspaceController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get save status", c.service.Status(ctx.UserContext())))
}

func (c *workspaceController) RetrySave(ctx *fiber.Ctx) error {
	res, err := c.service.RetrySave(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Save attempted", res))
}

func (c *workspaceController) Organize(ctx *fiber.Ctx) error {
	res, err := c.service.Organize(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create organization plan", res))
}

func (c *workspaceController) ApplyPlan(ctx *fiber.Ctx) error {
	res, err := c.service.ApplyPlan(ctx.UserContext(), ctx.Params("planId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success apply organization plan", res))
}

func (c *workspaceController) DiscardPlan(ctx *fiber.Ctx) error {
	if err := c.service.DiscardPlan(ctx.UserContext(), ctx.Params("planId")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Success discard organization plan", nil))
}

func (c *workspaceController) Assist(ctx *fiber.Ctx) error {
	var req dto.AssistRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ItemId = ctx.Params("id")
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Assist(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success run assist", res))
}

func (c *workspaceController) GeneratePresentation(ctx *fiber.Ctx) error {
	var req dto.GeneratePresentationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GeneratePresentation(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success generate presentation", res))
}

func (c *workspaceController) Validate(ctx *fiber.Ctx) error {
	res, err := c.service.Validate(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success validate workspace", res))
}
