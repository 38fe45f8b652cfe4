// Package docs регистрирует описание API для swaggo. Обновляется командой
// swag init -g cmd/mining-consultancy/main.go.
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
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Регистрация учётной записи",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/register.Request"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Вход",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Текущая учётная запись",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "401": {"description": "Please authenticate", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }
            }
        },
        "/subscriptions/plans": {
            "get": {"produces": ["application/json"], "tags": ["Subscriptions"], "summary": "Тарифные планы",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/subscriptions/orders": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Subscriptions"], "summary": "Создать заказ на оплату",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Invalid plan selected", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/subscriptions/verify": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Subscriptions"], "summary": "Подтвердить оплату",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Payment verification failed", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "409": {"description": "Payment already processed", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/subscriptions/payments": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Subscriptions"], "summary": "История платежей",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/ebooks": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Ebooks"], "summary": "Каталог по уровню подписки",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["Ebooks"], "summary": "Добавить книгу",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/ebooks/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["Ebooks"], "summary": "Книга",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Premium subscription required", "schema": {"$ref": "#/definitions/response.ErrorResponse"}},
                    "404": {"description": "E-book not found", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/ebooks/{id}/download": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Ebooks"], "summary": "Ссылка на файл книги",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/ebooks/{id}/rate": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["Ebooks"], "summary": "Оценить книгу",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/mining-plans": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["MiningPlans"], "summary": "Планы горных работ",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["MiningPlans"], "summary": "Создать план горных работ",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Active subscription required", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        },
        "/mining-plans/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["MiningPlans"], "summary": "План горных работ",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["MiningPlans"], "summary": "Обновить план горных работ",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}},
                    "400": {"description": "Invalid updates", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["MiningPlans"], "summary": "Удалить план горных работ",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/legal-advice": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Обращения за консультацией",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Создать обращение за консультацией",
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/legal-advice/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Обращение за консультацией",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "patch": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Изменить обращение",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Удалить обращение",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/response.Response"}}}}
        },
        "/legal-advice/{id}/responses": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["LegalAdvice"], "summary": "Ответить на обращение",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/response.Response"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/response.ErrorResponse"}}
                }}
        }
    },
    "definitions": {
        "register.Request": {
            "type": "object",
            "required": ["email", "name", "password"],
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string", "maxLength": 50, "minLength": 2},
                "password": {"type": "string", "minLength": 8}
            }
        },
        "response.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string", "example": "Please authenticate"},
                "status": {"type": "string", "example": "Error"}
            }
        },
        "response.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"type": "string"},
                "status": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and JWT token.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Mining Consultancy API",
	Description:      "API консультационного сервиса для горнодобывающих предприятий: подписки, библиотека, планы работ и юридические консультации.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
