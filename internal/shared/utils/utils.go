// Утилитарные функции общего назначения
package utils

// NonEmptyPtr возвращает nil для пустой строки, иначе указатель на неё.
func NonEmptyPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
