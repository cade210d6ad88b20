package server

import (
	"github.com/hyperjump/yosoku/internal/features"
	"github.com/hyperjump/yosoku/internal/form"
	"github.com/hyperjump/yosoku/internal/models"
)

// DescribeApps lists the enabled apps with their contracts and loaded artifacts.
func DescribeApps(apps Apps) models.ModelsResponse {
	resp := models.ModelsResponse{Apps: []models.AppInfo{}}
	if app := apps.ExamScore; app != nil {
		info := appInfo(form.ExamScoreForm(), app.Contract())
		info.Model = app.Info()
		resp.Apps = append(resp.Apps, info)
	}
	if app := apps.Personality; app != nil {
		info := appInfo(form.PersonalityForm(), app.Contract())
		info.Model = app.Info()
		scaler := app.ScalerInfo()
		info.Scaler = &scaler
		resp.Apps = append(resp.Apps, info)
	}
	return resp
}

func appInfo(f *form.Form, c features.Contract) models.AppInfo {
	return models.AppInfo{
		Name:     f.Key,
		Title:    f.Title,
		Path:     "/" + f.Key,
		Contract: c.Name + "/v" + c.Version,
		Features: c.Features,
	}
}
