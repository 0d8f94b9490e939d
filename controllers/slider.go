package controllers

import (
	"net/http"

	"aruth-api/models"
	"aruth-api/store"
	"aruth-api/utils"
)

// SliderController handles the home page banners
type SliderController struct {
	Sliders store.Sliders
}

// NewSliderController creates a new SliderController
func NewSliderController(sliders store.Sliders) *SliderController {
	return &SliderController{Sliders: sliders}
}

// GetSliders lists every slider
func (sc *SliderController) GetSliders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := dbContext(r)
	defer cancel()

	sliders, err := sc.Sliders.All(ctx)
	if err != nil {
		fail(w, r, err, "Sliders")
		return
	}
	utils.WriteJSON(w, http.StatusOK, sliders)
}

// CreateSlider adds a slider (Admin only)
func (sc *SliderController) CreateSlider(w http.ResponseWriter, r *http.Request) {
	var slider models.Slider
	if !decode(w, r, &slider, false) {
		return
	}
	if err := slider.Validate(); err != nil {
		invalid(w, err)
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := sc.Sliders.Insert(ctx, &slider); err != nil {
		fail(w, r, err, "Slider")
		return
	}
	utils.WriteJSON(w, http.StatusCreated, slider)
}

// DeleteSlider removes a slider (Admin only)
func (sc *SliderController) DeleteSlider(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := dbContext(r)
	defer cancel()

	if err := sc.Sliders.Delete(ctx, id); err != nil {
		fail(w, r, err, "Slider")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]int{"deletedCount": 1})
}
