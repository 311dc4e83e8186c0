package config

const DotEnvFile = ".env"
