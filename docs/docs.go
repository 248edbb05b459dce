// Package docs registers the OpenAPI description served at /api/swagger.
// Regenerate with: swag init -g cmd/server/main.go -o docs
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
        "/posts": {
            "get": {
                "description": "Recent or trending posts with live engagement",
                "produces": ["application/json"],
                "tags": ["posts"],
                "summary": "Campus feed",
                "parameters": [
                    {"type": "string", "description": "Campus ID, General, or all", "name": "campus", "in": "query"},
                    {"type": "integer", "description": "Page size", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "Offset (not with cursor)", "name": "offset", "in": "query"},
                    {"type": "string", "description": "Last post ID of the previous page", "name": "cursor", "in": "query"},
                    {"type": "boolean", "description": "Rank by trending score", "name": "trending", "in": "query"},
                    {"type": "string", "description": "decay or hourly", "name": "mode", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/server.feedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/models.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/models.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "models.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "server.feedResponse": {
            "type": "object",
            "properties": {
                "campus": {"type": "string"},
                "count": {"type": "integer"},
                "hasMore": {"type": "boolean"},
                "lastDocId": {"type": "string"},
                "offset": {"type": "integer"},
                "posts": {"type": "array", "items": {"type": "object"}},
                "success": {"type": "boolean"},
                "total": {"type": "integer"},
                "trending": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:3000",
	BasePath:         "/api",
	Schemes:          []string{"http", "https"},
	Title:            "HotGist API",
	Description:      "Anonymous campus feeds with trending ranking",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
