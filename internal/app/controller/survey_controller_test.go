package controller

import (
	"bytes"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func submission(name string, answers map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"customerInfo": map[string]string{"name": name, "phone": "0812"},
		"answers":      answers,
	}
}

func TestPublicSurveyController_GetForm(t *testing.T) {
	env := setupAPI(t)
	store, rating, _ := env.surveyStore(t)

	w := env.do(t, http.MethodGet, "/public/stores/"+store.ID+"/survey", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	form := decodeBody(t, w)
	assert.Equal(t, "Toko Sentosa", form["storeName"])
	section := form["sections"].([]interface{})[0].(map[string]interface{})
	first := section["questions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, rating.ID, first["id"])
	assert.Equal(t, true, first["mandatory"])

	w = env.do(t, http.MethodGet, "/public/stores/missing/survey", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicSurveyController_Submit(t *testing.T) {
	env := setupAPI(t)
	store, rating, text := env.surveyStore(t)
	path := "/public/stores/" + store.ID + "/responses"

	tests := []struct {
		name string
		body     interface{}
		wantCode int
		wantErr  string
	}{
		{
			name:     "mandatory unanswered",
			body:     submission("Ani", map[string]interface{}{text.ID: "Mantap"}),
			wantCode: http.StatusUnprocessableEntity,
			wantErr:  "SURVEY_MANDATORY_UNANSWERED",
		},
		{
			name:     "rating out of range",
			body:     submission("Ani", map[string]interface{}{rating.ID: 9}),
			wantCode: http.StatusBadRequest,
			wantErr:  "SURVEY_INVALID_ANSWER",
		},
		{
			name:     "customer name missing",
			body:     submission(" ", map[string]interface{}{rating.ID: 4}),
			wantCode: http.StatusBadRequest,
			wantErr:  "SURVEY_CUSTOMER_NAME_REQUIRED",
		},
		{
			name:     "partial response accepted",
			body:     submission("Ani", map[string]interface{}{rating.ID: 4}),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, path, "", tt.body)
			assert.Equal(t, tt.wantCode, w.Code)

			body := decodeBody(t, w)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, body["error"])
				return
			}
			assert.NotEmpty(t, body["responseId"])
			assert.Equal(t, "partial", body["completionStatus"])
		})
	}
}

func TestPublicSurveyController_MissingAnswersPayload(t *testing.T) {
	env := setupAPI(t)
	store, rating, _ := env.surveyStore(t)

	w := env.do(t, http.MethodPost, "/public/stores/"+store.ID+"/responses", "", submission("Ani", nil))
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	missing := decodeBody(t, w)["missing"].([]interface{})
	require.Len(t, missing, 1)
	group := missing[0].(map[string]interface{})
	assert.Equal(t, "Layanan", group["groupName"])
	questions := group["questions"].([]interface{})
	require.Len(t, questions, 1)
	assert.Equal(t, rating.ID, questions[0].(map[string]interface{})["id"])
}

func TestSurveyController_ResponsesAnalyticsExport(t *testing.T) {
	env := setupAPI(t)
	store, rating, text := env.surveyStore(t)
	path := "/public/stores/" + store.ID + "/responses"

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, path, "", submission("Ani", map[string]interface{}{rating.ID: 5, text.ID: "Ramah"})).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, path, "", submission("Budi", map[string]interface{}{rating.ID: 3})).Code)

	adminToken := env.token(t, env.admin)

	w := env.do(t, http.MethodGet, "/responses", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["count"])

	w = env.do(t, http.MethodGet, "/stores/"+store.ID+"/responses?search=budi", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decodeBody(t, w)["count"])

	w = env.do(t, http.MethodGet, "/responses?from=2026-13-01", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_INVALID_INPUT", decodeBody(t, w)["error"])

	// 매장 접근 권한 없음
	w = env.do(t, http.MethodGet, "/stores/"+store.ID+"/responses", env.token(t, env.staff), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, http.MethodGet, "/analytics", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decodeBody(t, w)["totalResponses"])

	w = env.do(t, http.MethodGet, "/export?format=wide", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Rekap")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	w = env.do(t, http.MethodGet, "/export?format=pivot", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
