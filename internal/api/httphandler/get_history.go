package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ledger-scanner/common/errs"
	"github.com/gaze-network/ledger-scanner/modules/history/entity"
	"github.com/gofiber/fiber/v2"
)

const (
	getHistoryDefaultLimit = 100
	getHistoryMaxLimit     = 1000
)

type getHistoryRequest struct {
	Limit  int32 `query:"limit"`
	Offset int32 `query:"offset"`
}

func (req getHistoryRequest) Validate() error {
	var errList []error
	if req.Limit < 0 {
		errList = append(errList, errors.New("'limit' must be non-negative"))
	}
	if req.Limit > getHistoryMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getHistoryMaxLimit))
	}
	if req.Offset < 0 {
		errList = append(errList, errors.New("'offset' must be non-negative"))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

func (req *getHistoryRequest) ParseDefault() {
	if req.Limit == 0 {
		req.Limit = getHistoryDefaultLimit
	}
}

type getHistoryResult struct {
	List []entity.Pass `json:"list"`
}

type getHistoryResponse = HttpResponse[getHistoryResult]

func (h *HttpHandler) GetHistory(ctx *fiber.Ctx) error {
	if h.history == nil {
		return errors.WithStack(fiber.NewError(fiber.StatusNotFound, "pass history is disabled"))
	}

	var req getHistoryRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(errs.NewPublicError("invalid query"))
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	req.ParseDefault()

	passes, err := h.history.GetPasses(ctx.UserContext(), h.network, req.Limit, req.Offset)
	if err != nil {
		return errors.Wrap(err, "error during GetPasses")
	}
	if passes == nil {
		passes = []entity.Pass{}
	}

	return errors.WithStack(ctx.JSON(getHistoryResponse{
		Result: &getHistoryResult{List: passes},
	}))
}
