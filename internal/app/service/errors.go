package service

import (
	"errors"

	"github.com/ikkim/survei-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrForbidden = errors.New("akses ditolak")

	ErrInvalidCredentials     = errors.New("username atau password salah")
	ErrUserInactive           = errors.New("akun tidak aktif")
	ErrUserNotFound           = errors.New("pengguna tidak ditemukan")
	ErrUsernameRequired       = errors.New("username wajib diisi")
	ErrUsernameTaken          = errors.New("username sudah digunakan")
	ErrInvalidRole            = errors.New("role tidak valid")
	ErrCannotDeleteSuperAdmin = errors.New("akun super admin tidak dapat dihapus")
	ErrCannotDeleteSelf       = errors.New("tidak dapat menghapus akun sendiri")
	ErrPasswordTooShort       = util.ErrPasswordTooShort

	ErrCategoryNotFound      = errors.New("kategori tidak ditemukan")
	ErrCategoryExists        = errors.New("kategori dengan nama ini sudah ada")
	ErrQuestionNotFound      = errors.New("pertanyaan tidak ditemukan")
	ErrUnknownQuestion       = errors.New("pertanyaan tidak dikenal")
	ErrQuestionGroupNotFound = errors.New("grup pertanyaan tidak ditemukan")
	ErrUnknownQuestionGroup  = errors.New("grup pertanyaan tidak dikenal")

	ErrStoreNotFound        = errors.New("toko tidak ditemukan")
	ErrStoreInactive        = errors.New("toko tidak aktif")
	ErrCannotRemoveCreator  = errors.New("pembuat toko tidak dapat dihapus dari pengelola")
	ErrResponseNotFound     = errors.New("respons survei tidak ditemukan")
	ErrCustomerNameRequired = errors.New("nama pelanggan wajib diisi")
)

// translate maps a missing row to the domain sentinel and passes anything
// else through.
func translate(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
