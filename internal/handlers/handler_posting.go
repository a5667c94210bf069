package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/SahayFarms/farm_books_app/internal/core/ports/services"
	"github.com/SahayFarms/farm_books_app/internal/dto"
	"github.com/SahayFarms/farm_books_app/internal/middleware"
)

// postingHandler handles HTTP requests for posting groups and ledger entries.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(postingService portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: postingService}
}

// createManualPosting godoc
// @Summary Post a manual balanced posting group
// @Tags postings
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param posting body dto.CreateManualPostingRequest true "Entries to post"
// @Success 201 {object} dto.PostingGroupResponse
// @Failure 400 {object} map[string]string "Entries do not balance"
// @Router /tenants/{tenantID}/postings [post]
// @Security BearerAuth
func (h *postingHandler) createManualPosting(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var req dto.CreateManualPostingRequest
	if !bindJSONOrAbort(c, &req) {
		return
	}

	group, err := h.postingService.CreateManualPosting(c.Request.Context(), session, c.Param("tenantID"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Manual posting created", slog.String("posting_group_id", group.PostingGroupID))
	c.JSON(http.StatusCreated, dto.ToPostingGroupResponse(group))
}

// getPostingGroup godoc
// @Summary Get a posting group with its entries
// @Tags postings
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param postingGroupID path string true "Posting group ID"
// @Success 200 {object} dto.PostingGroupResponse
// @Failure 404 {object} map[string]string "Posting group not found"
// @Router /tenants/{tenantID}/postings/{postingGroupID} [get]
// @Security BearerAuth
func (h *postingHandler) getPostingGroup(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	group, err := h.postingService.GetPostingGroupByID(c.Request.Context(), session, c.Param("tenantID"), c.Param("postingGroupID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPostingGroupResponse(group))
}

// listPostingGroups godoc
// @Summary List posting groups
// @Tags postings
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListPostingGroupsResponse
// @Router /tenants/{tenantID}/postings [get]
// @Security BearerAuth
func (h *postingHandler) listPostingGroups(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListPostingGroupsParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.postingService.ListPostingGroups(c.Request.Context(), session, c.Param("tenantID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// reversePostingGroup godoc
// @Summary Reverse a posting group
// @Description Posts a mirror-image group and marks the original REVERSED
// @Tags postings
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param postingGroupID path string true "Posting group ID"
// @Success 201 {object} dto.PostingGroupResponse
// @Failure 409 {object} map[string]string "Group already reversed or is a reversal"
// @Router /tenants/{tenantID}/postings/{postingGroupID}/reverse [post]
// @Security BearerAuth
func (h *postingHandler) reversePostingGroup(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	reversal, err := h.postingService.ReversePostingGroup(c.Request.Context(), session, c.Param("tenantID"), c.Param("postingGroupID"))
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Info("Posting group reversed",
		slog.String("original_id", c.Param("postingGroupID")),
		slog.String("reversal_id", reversal.PostingGroupID))
	c.JSON(http.StatusCreated, dto.ToPostingGroupResponse(reversal))
}

// listAccountEntries godoc
// @Summary List ledger entries of an account
// @Tags postings
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListEntriesResponse
// @Router /tenants/{tenantID}/accounts/{accountID}/entries [get]
// @Security BearerAuth
func (h *postingHandler) listAccountEntries(c *gin.Context) {
	session, ok := sessionOrAbort(c)
	if !ok {
		return
	}

	var params dto.ListEntriesParams
	if !bindQueryOrAbort(c, &params) {
		return
	}

	resp, err := h.postingService.ListEntriesByAccount(c.Request.Context(), session, c.Param("tenantID"), c.Param("accountID"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// registerPostingRoutes registers posting specific routes.
func registerPostingRoutes(group *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	postingHandler := newPostingHandler(postingService)

	postings := group.Group("/postings")
	{
		postings.POST("", postingHandler.createManualPosting)
		postings.GET("", postingHandler.listPostingGroups)
		postings.GET("/:postingGroupID", postingHandler.getPostingGroup)
		postings.POST("/:postingGroupID/reverse", postingHandler.reversePostingGroup)
	}

	// Account statement view lives under the account resource.
	group.GET("/accounts/:accountID/entries", postingHandler.listAccountEntries)
}
