package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrUserNotFound        = errors.New("usuario no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInvalidCredentials  = errors.New("usuario o contraseña incorrectos")
	ErrUserInactive        = errors.New("el usuario está desactivado")
	ErrWeakPassword        = errors.New("la contraseña no cumple la política")
	ErrEmptyCart           = errors.New("el carrito está vacío")
	ErrInsufficientPayment = errors.New("el monto recibido es menor que el total")
	ErrPaymentReference    = errors.New("el método de pago requiere número de referencia")
	ErrInvalidStatus       = errors.New("transición de estado inválida")
	ErrModelNotTrained     = errors.New("el modelo de recomendación no está entrenado")
)
