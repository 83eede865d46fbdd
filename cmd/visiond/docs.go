package main

// General API documentation for swaggo. Run `swag init -g cmd/visiond/docs.go -o docs` to regenerate docs.
//
// @title           visiond API
// @version         1.0
// @description     HTTP API for image analysis with a local vision-language model.
//
// @contact.name   visiond maintainers
//
// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT
//
// @BasePath  /
//
// @schemes http
