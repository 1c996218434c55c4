// Package s3 предоставляет функционал для хранения объектов в Amazon S3
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"
)

// ErrNotFound возвращается, если объекта с указанным ключом нет в бакете
var ErrNotFound = errors.New("объект не найден в S3")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

// Client обертка над S3 uploader и клиентом
type Client struct {
	s3Uploader s3manageriface.UploaderAPI
	s3Client   s3iface.S3API
	config     *Config
}

// NewClient создает новый S3 клиент
func NewClient(config *Config) (*Client, error) {
	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return NewClientWithAPI(config, s3manager.NewUploader(sess), s3.New(sess)), nil
}

// NewClientWithAPI создает клиент поверх готовых реализаций API
func NewClientWithAPI(config *Config, uploader s3manageriface.UploaderAPI, api s3iface.S3API) *Client {
	return &Client{
		s3Uploader: uploader,
		s3Client:   api,
		config:     config,
	}
}

// Upload загружает объект в S3 и возвращает его URL
func (c *Client) Upload(ctx context.Context, reader io.Reader, key string) (string, error) {
	_, err := c.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки: %w", err)
	}

	// Формируем URL объекта
	url := fmt.Sprintf("%s/%s/%s", c.config.Endpoint, c.config.BucketName, key)
	return url, nil
}

// Download читает объект целиком
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	out, err := c.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var aerr awserr.Error
		if errors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("ошибка чтения объекта из S3: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения тела объекта: %w", err)
	}
	return body, nil
}

// Delete удаляет объект из S3
func (c *Client) Delete(ctx context.Context, key string) error {
	_, err := c.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления объекта из S3: %w", err)
	}
	return nil
}

// List возвращает ключи объектов с префиксом prefix
func (c *Client) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := c.s3Client.ListObjectsV2PagesWithContext(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(c.config.BucketName),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, _ bool) bool {
		for _, obj := range page.Contents {
			keys = append(keys, aws.StringValue(obj.Key))
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка объектов S3: %w", err)
	}
	return keys, nil
}
