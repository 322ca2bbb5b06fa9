// Package docs is generated by swag init; regenerate it after changing the
// handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "termsOfService": "http://swagger.io/terms/",
        "contact": {
            "name": "API Support",
            "url": "http://www.swagger.io/support",
            "email": "support@swagger.io"
        },
        "license": {
            "name": "Apache 2.0",
            "url": "http://www.apache.org/licenses/LICENSE-2.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/sessions": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Start an exam session",
                "parameters": [
                    {
                        "description": "Paper selection",
                        "name": "request",
                        "in": "body",
                        "schema": {"$ref": "#/definitions/dto.StartSessionRequest"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.StartSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/middleware.ValidationErrorResponse"}}
                }
            }
        },
        "/session": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["session"],
                "summary": "Get the session view",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["session"],
                "summary": "End the session",
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/session/goto": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["navigation"],
                "summary": "Jump to a question",
                "parameters": [
                    {"description": "Target index", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.GoToRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/next": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["navigation"],
                "summary": "Move to the next question",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/prev": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["navigation"],
                "summary": "Move to the previous question",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/answer": {
            "put": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "tags": ["answers"],
                "summary": "Answer the current question",
                "parameters": [
                    {"description": "Answer value", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.AnswerRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            },
            "delete": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["answers"],
                "summary": "Clear the current answer",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/sidebar": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["session"],
                "summary": "Toggle the palette sidebar",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/submit/confirm": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["submit"],
                "summary": "Open the submit confirmation",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/submit/cancel": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["submit"],
                "summary": "Close the submit confirmation",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.SessionView"}}}
            }
        },
        "/session/submit": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["submit"],
                "summary": "Submit the exam",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResultResponse"}}}
            }
        },
        "/session/result": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["submit"],
                "summary": "Get the result of a submitted session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ResultResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/middleware.ErrorResponse"}}
                }
            }
        },
        "/session/restart": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "tags": ["session"],
                "summary": "Restart the exam on the same paper",
                "description": "Resets the countdown and returns a fresh token covering it",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.StartSessionResponse"}}}
            }
        },
        "/papers/{id}/attempts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "List recorded attempts for a paper",
                "parameters": [
                    {"type": "string", "description": "Paper ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Maximum rows (default 20)", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.AttemptListResponse"}}}
            }
        }
    },
    "definitions": {
        "dto.StartSessionRequest": {
            "type": "object",
            "properties": {"paper_id": {"type": "string", "example": "jee-main-2024-shift1"}}
        },
        "dto.StartSessionResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_at": {"type": "string"},
                "session": {"$ref": "#/definitions/dto.SessionView"}
            }
        },
        "dto.GoToRequest": {
            "type": "object",
            "properties": {"index": {"type": "integer", "example": 4}}
        },
        "dto.AnswerRequest": {
            "type": "object",
            "properties": {"value": {"type": "string", "example": "B"}}
        },
        "dto.SessionView": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "phase": {"type": "string", "enum": ["exam", "results"]},
                "current": {"type": "integer"},
                "answered_count": {"type": "integer"},
                "remaining_seconds": {"type": "integer"},
                "clock": {"type": "string", "example": "2:59:59"},
                "urgent": {"type": "boolean"},
                "confirm_open": {"type": "boolean"},
                "sidebar_open": {"type": "boolean"},
                "no_questions": {"type": "boolean"},
                "submit_reason": {"type": "string"}
            }
        },
        "dto.ResultResponse": {
            "type": "object",
            "properties": {
                "correct": {"type": "integer"},
                "wrong": {"type": "integer"},
                "skipped": {"type": "integer"},
                "answered": {"type": "integer"},
                "total_questions": {"type": "integer"},
                "marks": {"type": "number"},
                "total_marks": {"type": "number"},
                "has_key": {"type": "boolean"},
                "percent": {"type": "integer"},
                "headline": {"type": "string"},
                "verdict": {"type": "string"}
            }
        },
        "dto.AttemptListResponse": {
            "type": "object",
            "properties": {
                "paper_id": {"type": "string"},
                "attempts": {"type": "array", "items": {"type": "object"}}
            }
        },
        "middleware.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "middleware.ValidationErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "errors": {"type": "array", "items": {"type": "object"}}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "Type 'Bearer YOUR_SESSION_TOKEN' to authorize.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8090",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "Exam Byte API",
	Description:      "Timed exam sessions over stored past papers.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
