package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo 에러 정보 구조
type ErrorInfo struct {
	Code    string // 에러 코드 (codes.go 참조)
	Message string // 사용자 친화적 메시지
}

// ParseError 에러를 파싱하여 사용자 친화적인 메시지와 코드로 변환
// 드라이버 메시지는 그대로 노출하지 않음
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Terjadi kesalahan pada server",
		}
	}

	errStrLower := strings.ToLower(err.Error())

	// 1. GORM 기본 에러
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundInfo(context)
	}

	// 2. Unique constraint violation (postgres 23505, sqlite UNIQUE)
	if errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(errStrLower, "duplicate key") ||
		strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 3. Not null constraint violation (23502)
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "Ada kolom wajib yang belum diisi"}
	}

	// 4. 네트워크/연결 에러
	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "Gagal terhubung ke database. Silakan coba lagi",
		}
	}

	// 5. 기본 내부 서버 오류
	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultErrorMessage(context),
	}
}

// parseDuplicateKeyError Unique constraint 위반 에러 파싱
func parseDuplicateKeyError(errLower string) ErrorInfo {
	if strings.Contains(errLower, "username") {
		return ErrorInfo{Code: AuthUsernameExists, Message: "Username sudah digunakan"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Data sudah ada"}
}

// notFoundInfo context에 따른 Not Found 코드와 메시지
func notFoundInfo(context string) ErrorInfo {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "response"):
		return ErrorInfo{Code: SurveyResponseNotFound, Message: "Respons survei tidak ditemukan"}
	case strings.Contains(contextLower, "store"):
		return ErrorInfo{Code: StoreNotFound, Message: "Toko tidak ditemukan"}
	case strings.Contains(contextLower, "user"):
		return ErrorInfo{Code: UserNotFound, Message: "Pengguna tidak ditemukan"}
	case strings.Contains(contextLower, "group"):
		return ErrorInfo{Code: QuestionGroupNotFound, Message: "Grup pertanyaan tidak ditemukan"}
	case strings.Contains(contextLower, "question"):
		return ErrorInfo{Code: QuestionNotFound, Message: "Pertanyaan tidak ditemukan"}
	case strings.Contains(contextLower, "category"):
		return ErrorInfo{Code: CategoryNotFound, Message: "Kategori tidak ditemukan"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Data tidak ditemukan"}
}

// defaultErrorMessage context에 따른 기본 에러 메시지
func defaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"), strings.Contains(contextLower, "submit"):
		return "Gagal menyimpan data. Silakan coba lagi"
	case strings.Contains(contextLower, "update"):
		return "Gagal memperbarui data. Silakan coba lagi"
	case strings.Contains(contextLower, "delete"):
		return "Gagal menghapus data. Silakan coba lagi"
	case strings.Contains(contextLower, "export"):
		return "Gagal membuat file ekspor. Silakan coba lagi"
	}
	return "Terjadi kesalahan pada server. Silakan coba lagi"
}

// ParseAndRespond 에러를 파싱하여 응답 반환 (헬퍼 함수)
// controller에서 간편하게 사용할 수 있도록
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
