// Package normalize приводит записи биллингового бэкенда к отображаемой форме
// консоли и собирает исходящие тела мутаций обратно в формат бэкенда.
//
// Бэкенд отдает перечисления в верхнем регистре, даты либо строкой ISO-8601,
// либо массивом из шести чисел, а идентификатор записи двумя полями: числовым
// первичным ключом и необязательным человекочитаемым formattedId. Все функции
// пакета чистые и не возвращают ошибок: битое поле записи превращается в
// безопасное отображаемое значение, а не ломает список целиком.
package normalize

import "strconv"

// ID разделяет отображаемый идентификатор записи и её первичный ключ.
// Display показывается пользователю и сериализуется как id, Key участвует
// во всех мутационных вызовах к бэкенду. Смешать их невозможно: Display
// всегда строка, Key всегда число.
type ID struct {
	Display string `json:"id"`
	Key     int64  `json:"originalId"`
}

// NewID строит ID из числового ключа и форматированного идентификатора
// бэкенда. При пустом formatted в Display попадает десятичная запись ключа.
func NewID(key int64, formatted string) ID {
	if formatted == "" {
		formatted = strconv.FormatInt(key, 10)
	}
	return ID{Display: formatted, Key: key}
}

func (id ID) String() string {
	return id.Display
}
