package services

import "errors"

// Сентинельные ошибки доменного слоя. Хендлеры переводят их
// в HTTP-статусы, наружу уходит только общий текст.
var (
	ErrNotFound              = errors.New("запись не найдена")
	ErrDuplicate             = errors.New("username или email уже заняты")
	ErrSelfModification      = errors.New("нельзя отключить собственную учётную запись")
	ErrInvalidOrExpiredToken = errors.New("неверный или просроченный токен")
	ErrUnsupportedFormat     = errors.New("неподдерживаемый формат экспорта")
	ErrNothingToExport       = errors.New("нет данных для экспорта")
	ErrInvalidCredentials    = errors.New("неверный логин или пароль")
	ErrAccountDisabled       = errors.New("учётная запись отключена")
	ErrArtifactGeneration    = errors.New("не удалось сгенерировать файлы пожертвования")
	ErrEmailNotFound         = errors.New("учётная запись с таким email не найдена")
)

// ValidationErrors — ошибки формы: поле → сообщение.
// Возвращаются как есть, без персистентных побочных эффектов.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	return "ошибка валидации формы"
}
