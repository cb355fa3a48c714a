// Package docs registers the OpenAPI document served under /swagger.
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
        "/": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Home page",
                "responses": {
                    "200": {"description": "home page"},
                    "302": {"description": "not logged in, redirect to /login"}
                }
            }
        },
        "/login": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Login form",
                "responses": {"200": {"description": "login page"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Log in a user",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "login page with error message"},
                    "302": {"description": "redirect to / with session cookie"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/signup": {
            "get": {
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Signup form",
                "responses": {"200": {"description": "signup page"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["auth"],
                "summary": "Create an account",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true},
                    {"type": "string", "description": "Email", "name": "email", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "signup page with error message"},
                    "302": {"description": "redirect to /login"}
                }
            }
        },
        "/logout": {
            "get": {
                "tags": ["auth"],
                "summary": "Log out",
                "responses": {"302": {"description": "redirect to /admin_login for admins, / otherwise"}}
            }
        },
        "/admin_login": {
            "get": {
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "Admin login form",
                "responses": {"200": {"description": "admin login page"}}
            },
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "Log in as administrator",
                "parameters": [
                    {"type": "string", "description": "Admin name", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "description": "Password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "admin login page with error message"},
                    "302": {"description": "redirect to /Dashboard"},
                    "503": {"description": "no administrator account exists"}
                }
            }
        },
        "/Dashboard": {
            "get": {
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "List non-admin users",
                "responses": {
                    "200": {"description": "dashboard page"},
                    "302": {"description": "not an admin"}
                }
            }
        },
        "/user/{name}": {
            "get": {
                "produces": ["text/html"],
                "tags": ["admin"],
                "summary": "Show a single user",
                "parameters": [
                    {"type": "string", "description": "User name, used only without button", "name": "name", "in": "path", "required": true},
                    {"type": "string", "description": "Selected user name, authoritative", "name": "button", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "user page"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/user/delete": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["admin"],
                "summary": "Delete a user",
                "parameters": [
                    {"type": "string", "description": "User name", "name": "name", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "redirect to /Dashboard"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/user/{edit}": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "tags": ["admin"],
                "summary": "Rename the user registered under an email",
                "parameters": [
                    {"type": "string", "description": "Any path segment", "name": "edit", "in": "path", "required": true},
                    {"type": "string", "description": "New name", "name": "name", "in": "formData", "required": true},
                    {"type": "string", "description": "Email of the account", "name": "email", "in": "formData", "required": true}
                ],
                "responses": {
                    "302": {"description": "redirect to /Dashboard"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/errors.ErrorResponse"}}
                }
            }
        },
        "/auth/google": {
            "get": {
                "tags": ["oauth"],
                "summary": "Start Google login",
                "responses": {"302": {"description": "redirect to the provider consent page"}}
            }
        },
        "/auth/google/callback": {
            "get": {
                "produces": ["text/html"],
                "tags": ["oauth"],
                "summary": "Google login callback",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query", "required": true},
                    {"type": "string", "description": "State token", "name": "state", "in": "query", "required": true}
                ],
                "responses": {
                    "200": {"description": "link account or continue to signup page"},
                    "302": {"description": "redirect to / when logged in, /login on failure"}
                }
            }
        },
        "/auth/google/link": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded"],
                "produces": ["text/html"],
                "tags": ["oauth"],
                "summary": "Link a Google identity to an existing account",
                "parameters": [
                    {"type": "string", "description": "Pending link token", "name": "token", "in": "formData", "required": true},
                    {"type": "string", "description": "Account password", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "link page with error message"},
                    "302": {"description": "redirect to / once linked"}
                }
            }
        }
    },
    "definitions": {
        "errors.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "User Portal",
	Description:      "Signup, login and admin user management pages.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
