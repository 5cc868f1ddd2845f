package controllers

import (
	"net/http"

	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/constants"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/dtos"
	"github.com/MikyMack/TranshaStays/backend/services/booking-service/internal/services"
	"github.com/MikyMack/TranshaStays/backend/shared/go-models"
	"github.com/MikyMack/TranshaStays/backend/shared/go-utils"
	"github.com/gorilla/mux"
)

type ReviewController struct {
	reviews *services.ReviewService
	audit   Auditor
}

func NewReviewController(rs *services.ReviewService, auditor Auditor) *ReviewController {
	return &ReviewController{reviews: rs, audit: auditor}
}

// POST /api/v1/premium-apartments/{id}/reviews
func (c *ReviewController) AddHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	resp, err := c.reviews.AddReview(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondSuccess(w, http.StatusCreated, constants.MsgReviewSaved, resp)
}

// GET /api/v1/premium-apartments/{id}/reviews
func (c *ReviewController) ListHandler(w http.ResponseWriter, r *http.Request) {
	list, err := c.reviews.ListReviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	utils.RespondList(w, constants.MsgReviewsFetched, len(list), list)
}

// PUT /api/v1/premium-apartments/{id}/reviews/{reviewId}
func (c *ReviewController) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dtos.ReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	vars := mux.Vars(r)
	resp, err := c.reviews.UpdateReview(r.Context(), vars["id"], vars["reviewId"], req)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditUpdate, models.TargetReview, vars["reviewId"], resp.Review)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgReviewSaved, resp)
}

// DELETE /api/v1/premium-apartments/{id}/reviews/{reviewId}
func (c *ReviewController) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resp, err := c.reviews.DeleteReview(r.Context(), vars["id"], vars["reviewId"])
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	audit(r, c.audit, models.AuditDelete, models.TargetReview, vars["reviewId"], nil)
	utils.RespondSuccess(w, http.StatusOK, constants.MsgReviewDeleted, resp)
}
