package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"        // 로그인 필요
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS" // 잘못된 아이디/비밀번호
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"       // 토큰 만료
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"       // 잘못된 토큰
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"       // 토큰 폐기됨
	AuthUserInactive       = "AUTH_USER_INACTIVE"       // 비활성 계정
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"     // 아이디 중복

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden      = "AUTHZ_FORBIDDEN"        // 접근 권한 없음
	AuthzSuperAdminOnly = "AUTHZ_SUPER_ADMIN_ONLY" // super_admin 전용

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE" // 범위 초과
	ValidationTooShort     = "VALIDATION_TOO_SHORT"     // 너무 짧음
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재
	ResourceConflict      = "RESOURCE_CONFLICT"       // 충돌

	// ==================== 사용자 (USER_) ====================
	UserNotFound               = "USER_NOT_FOUND"                 // 사용자 없음
	UserCannotDeleteSuperAdmin = "USER_CANNOT_DELETE_SUPER_ADMIN" // super_admin 삭제 불가
	UserCannotDeleteSelf       = "USER_CANNOT_DELETE_SELF"        // 본인 삭제 불가

	// ==================== 매장 (STORE_) ====================
	StoreNotFound            = "STORE_NOT_FOUND"             // 매장 없음 (권한 없음 포함)
	StoreInactive            = "STORE_INACTIVE"              // 비활성 매장
	StoreCannotRemoveCreator = "STORE_CANNOT_REMOVE_CREATOR" // 생성자는 매니저에서 제외 불가
	StoreUnknownGroup        = "STORE_UNKNOWN_GROUP"         // 존재하지 않는 그룹 지정

	// ==================== 질문 (QUESTION_) ====================
	QuestionNotFound      = "QUESTION_NOT_FOUND"       // 질문 없음
	QuestionGroupNotFound = "QUESTION_GROUP_NOT_FOUND" // 질문 그룹 없음
	CategoryNotFound      = "CATEGORY_NOT_FOUND"       // 카테고리 없음

	// ==================== 설문 (SURVEY_) ====================
	SurveyResponseNotFound    = "SURVEY_RESPONSE_NOT_FOUND"     // 응답 없음
	SurveyMandatoryUnanswered = "SURVEY_MANDATORY_UNANSWERED"   // 필수 문항 미응답
	SurveyInvalidAnswer       = "SURVEY_INVALID_ANSWER"         // 문항 타입과 맞지 않는 답변
	SurveyCustomerRequired    = "SURVEY_CUSTOMER_NAME_REQUIRED" // 고객 이름 누락

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"   // 외부 API 오류
)
