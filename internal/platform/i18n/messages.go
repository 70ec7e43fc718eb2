package i18n

var english = Messages{
	"required":        "The :attribute field is required.",
	"filled":          "The :attribute field must not be null.",
	"string":          "The :attribute must be a string.",
	"integer":         "The :attribute must be an integer.",
	"numeric":         "The :attribute must be a number.",
	"boolean":         "The :attribute field must be true or false.",
	"date":            "The :attribute is not a valid date.",
	"uuid":            "The :attribute must be a valid UUID.",
	"email":           "The :attribute must be a valid email address.",
	"in":              "The selected :attribute is invalid.",
	"min.string":      "The :attribute must be at least :min characters.",
	"min.numeric":     "The :attribute must be at least :min.",
	"max.string":      "The :attribute may not be greater than :max characters.",
	"max.numeric":     "The :attribute may not be greater than :max.",
	"different":       "The :attribute and :other must be different.",
	"gt":              "The :attribute must be greater than :other.",
	"positive":        "The :attribute must be greater than zero.",
	"after":           "The :attribute must be a date after :other.",
	"before":          "The :attribute must be a date before :other.",
	"exists":          "The selected :attribute is invalid.",
	"unique":          "The :attribute has already been taken.",
	"exceeds_price":   "The adjusted price must be greater than the product price (:price).",
	"within_balance":  "The payment amount may not exceed the sale balance (:balance).",
	"unique_per_sale": "This product already has a price adjustment for the sale.",
	"sale_open":       "The selected sale no longer accepts payments.",

	"attributes.patient_id":              "patient",
	"attributes.specialist_id":           "specialist",
	"attributes.receptionist_id":         "receptionist",
	"attributes.appointment_id":          "appointment",
	"attributes.scheduled_at":            "scheduled time",
	"attributes.source_location_id":      "source location",
	"attributes.destination_location_id": "destination location",
	"attributes.product_id":              "product",
	"attributes.sale_id":                 "sale",
	"attributes.adjusted_price":          "adjusted price",
	"attributes.period_start":            "period start",
	"attributes.period_end":              "period end",
	"attributes.ordered_at":              "order date",
	"attributes.due_date":                "due date",
	"attributes.document_number":         "document number",
	"attributes.birth_date":              "birth date",
	"attributes.lens_type_id":            "lens type",
	"attributes.warehouse_id":            "warehouse",
	"attributes.laboratory_id":           "laboratory",
	"attributes.prescription_id":         "prescription",
	"attributes.user_id":                 "employee",
	"attributes.seller_id":               "seller",
}

var spanish = Messages{
	"required":        "El campo :attribute es obligatorio.",
	"filled":          "El campo :attribute no puede ser nulo.",
	"string":          "El campo :attribute debe ser una cadena de texto.",
	"integer":         "El campo :attribute debe ser un número entero.",
	"numeric":         "El campo :attribute debe ser un número.",
	"boolean":         "El campo :attribute debe ser verdadero o falso.",
	"date":            "El campo :attribute no es una fecha válida.",
	"uuid":            "El campo :attribute debe ser un UUID válido.",
	"email":           "El campo :attribute debe ser un correo electrónico válido.",
	"in":              "El :attribute seleccionado no es válido.",
	"min.string":      "El campo :attribute debe tener al menos :min caracteres.",
	"min.numeric":     "El campo :attribute debe ser al menos :min.",
	"max.string":      "El campo :attribute no puede tener más de :max caracteres.",
	"max.numeric":     "El campo :attribute no puede ser mayor que :max.",
	"different":       "Los campos :attribute y :other deben ser diferentes.",
	"gt":              "El campo :attribute debe ser mayor que :other.",
	"positive":        "El campo :attribute debe ser mayor que cero.",
	"after":           "El campo :attribute debe ser una fecha posterior a :other.",
	"before":          "El campo :attribute debe ser una fecha anterior a :other.",
	"exists":          "El :attribute seleccionado no es válido.",
	"unique":          "El campo :attribute ya ha sido registrado.",
	"exceeds_price":   "El precio ajustado debe ser mayor que el precio del producto (:price).",
	"within_balance":  "El monto del abono no puede superar el saldo de la venta (:balance).",
	"unique_per_sale": "Este producto ya tiene un ajuste de precio para la venta.",
	"sale_open":       "La venta seleccionada ya no admite abonos.",

	"attributes.patient_id":              "paciente",
	"attributes.specialist_id":           "especialista",
	"attributes.receptionist_id":         "recepcionista",
	"attributes.appointment_id":          "cita",
	"attributes.scheduled_at":            "fecha de la cita",
	"attributes.source_location_id":      "ubicación de origen",
	"attributes.destination_location_id": "ubicación de destino",
	"attributes.product_id":              "producto",
	"attributes.sale_id":                 "venta",
	"attributes.adjusted_price":          "precio ajustado",
	"attributes.period_start":            "inicio del periodo",
	"attributes.period_end":              "fin del periodo",
	"attributes.ordered_at":              "fecha de pedido",
	"attributes.due_date":                "fecha de entrega",
	"attributes.document_number":         "número de documento",
	"attributes.birth_date":              "fecha de nacimiento",
	"attributes.lens_type_id":            "tipo de lente",
	"attributes.warehouse_id":            "almacén",
	"attributes.laboratory_id":           "laboratorio",
	"attributes.prescription_id":         "receta",
	"attributes.user_id":                 "empleado",
	"attributes.seller_id":               "vendedor",
	"attributes.name":                    "nombre",
	"attributes.email":                   "correo electrónico",
	"attributes.quantity":                "cantidad",
	"attributes.amount":                  "monto",
	"attributes.status":                  "estado",
	"attributes.price":                   "precio",
}
