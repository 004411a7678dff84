// Package main Scizor Server API
//
//	@title						Scizor Server API
//	@version					1.0
//	@description				AI proxy backend for the Scizor desktop assistant.
//
//	@contact.name				Scizor Support
//
//	@license.name				Proprietary
//
//	@host						localhost:5000
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Admin bearer token. Format: "Bearer {token}"
//
//	@tag.name					ai
//	@tag.description			AI operations: prompt enhancement, response generation, speech synthesis
//
//	@tag.name					users
//	@tag.description			Usage ledger accounts and balances
//
//	@tag.name					admin
//	@tag.description			Administrative balance management
package main
