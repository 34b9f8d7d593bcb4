// Package docs is generated by swaggo/swag from the handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/orders": {
            "post": {
                "description": "Сохраняет данные резюме и выбранный шаблон. Заказ создаётся неоплаченным.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Заказы"],
                "summary": "Создать заказ",
                "parameters": [{"description": "Данные резюме и шаблон", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.CreateOrderRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/presenter.OrderView"}},
                    "400": {"description": "Ошибка валидации", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Заказы"],
                "summary": "Статус заказа",
                "parameters": [{"type": "string", "description": "ID заказа", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/presenter.OrderView"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/checkout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Заказы"],
                "summary": "Начать оплату",
                "parameters": [{"type": "string", "description": "ID заказа", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/payment.Session"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "409": {"description": "Заказ уже оплачен", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "502": {"description": "Ошибка платёжного провайдера", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "503": {"description": "Оплата не настроена", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/download": {
            "get": {
                "description": "Доступно только после подтверждения оплаты.",
                "produces": ["application/pdf"],
                "tags": ["Заказы"],
                "summary": "Скачать резюме",
                "parameters": [{"type": "string", "description": "ID заказа", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "402": {"description": "Заказ не оплачен", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/webhooks/payment": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Оплата"],
                "summary": "Webhook платёжного провайдера",
                "parameters": [
                    {"type": "string", "description": "HMAC-SHA256 тела запроса (hex)", "name": "X-Signature", "in": "header"},
                    {"description": "Событие", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/payment.Event"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.WebhookAck"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/mock-checkout/{session}/complete": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Оплата"],
                "summary": "Завершить тестовую оплату",
                "parameters": [{"type": "string", "description": "ID сессии", "name": "session", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.WebhookAck"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        },
        "/objective/draft": {
            "post": {
                "description": "Генерирует черновик раздела «Objetivo» через LLM. Заказы не затрагиваются.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Резюме"],
                "summary": "Предложить текст объектива",
                "parameters": [{"description": "Данные резюме", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/resume.ResumeData"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/resume.DraftResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}},
                    "503": {"description": "LLM не настроена", "schema": {"$ref": "#/definitions/presenter.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.CreateOrderRequest": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/resume.ResumeData"},
                "template": {"type": "string", "example": "classic"}
            }
        },
        "handlers.WebhookAck": {
            "type": "object",
            "properties": {"ignored": {"type": "string"}, "received": {"type": "boolean"}}
        },
        "payment.Event": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/payment.EventData"},
                "id": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "payment.EventData": {
            "type": "object",
            "properties": {
                "orderId": {"type": "string"},
                "provider": {"type": "string"},
                "sessionId": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "payment.Session": {
            "type": "object",
            "properties": {"redirectUrl": {"type": "string"}, "sessionId": {"type": "string"}}
        },
        "presenter.ErrorResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "presenter.OrderView": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "currency": {"type": "string"},
                "orderId": {"type": "string"},
                "paid": {"type": "boolean"},
                "paymentProvider": {"type": "string"},
                "paymentSessionId": {"type": "string"},
                "paymentStatus": {"type": "string"},
                "price": {"type": "string"},
                "template": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "resume.DraftResult": {
            "type": "object",
            "properties": {"excerpted": {"type": "boolean"}, "model": {"type": "string"}, "objective": {"type": "string"}}
        },
        "resume.ResumeData": {
            "type": "object",
            "properties": {
                "courses": {"type": "array", "items": {"type": "object", "properties": {"hours": {"type": "string"}, "institution": {"type": "string"}, "name": {"type": "string"}}}},
                "education": {"type": "array", "items": {"type": "object", "properties": {"end": {"type": "string"}, "institution": {"type": "string"}, "program": {"type": "string"}, "start": {"type": "string"}}}},
                "experiences": {"type": "array", "items": {"type": "object", "properties": {"description": {"type": "string"}, "end": {"type": "string"}, "location": {"type": "string"}, "organization": {"type": "string"}, "role": {"type": "string"}, "start": {"type": "string"}}}},
                "languages": {"type": "array", "items": {"type": "object", "properties": {"level": {"type": "string"}, "name": {"type": "string"}}}},
                "objective": {"type": "object", "properties": {"text": {"type": "string"}}},
                "personalInfo": {"type": "object", "properties": {"city": {"type": "string"}, "email": {"type": "string"}, "linkedin": {"type": "string"}, "name": {"type": "string"}, "phone": {"type": "string"}, "region": {"type": "string"}, "website": {"type": "string"}}},
                "skills": {"type": "array", "items": {"type": "string"}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http"},
	Title:            "resumepay API",
	Description:      "Заказы на оформление резюме: оплата через внешний checkout и выдача PDF после подтверждения платежа.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
