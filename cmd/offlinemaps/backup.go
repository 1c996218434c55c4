package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazadus/go-offlinemaps/internal/s3"
	"github.com/hazadus/go-offlinemaps/internal/uploader"
	"github.com/hazadus/go-offlinemaps/internal/utils"
)

// createBackupCommand создает команду backup с привязкой к экземпляру приложения
func (app *Application) createBackupCommand(ctx context.Context) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a copy of the catalog to S3 storage",
		Long: `Upload a timestamped YAML copy of the offline areas catalog to S3 storage.
With --keep N only the N newest copies are left in the bucket.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if keep < 0 {
				return fmt.Errorf("--keep не может быть отрицательным: %d", keep)
			}
			backupCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()
			return app.backupCatalog(backupCtx, keep)
		},
	}
	cmd.Flags().IntVar(&keep, "keep", 0, "number of newest copies to keep, 0 keeps all")
	return cmd
}

func (app *Application) backupCatalog(ctx context.Context, keep int) error {
	store, err := app.backupStore()
	if err != nil {
		return err
	}

	snapshot, _ := app.Manager.Current()
	service := uploader.NewService(store, app.Config.S3BackupPrefix)

	fmt.Printf("📤 Выгружаем копию каталога в S3:\n")
	fmt.Printf("   Бакет: %s\n", app.Config.AwsBucketName)
	fmt.Printf("   Областей: %d\n", snapshot.Len())
	fmt.Println()

	result, err := service.Backup(ctx, snapshot, func(n int64) {
		fmt.Printf("\r📊 Выгружено: %s", utils.FormatFileSize(n))
	})
	if err != nil {
		fmt.Printf("\n❌ Ошибка выгрузки: %v\n", err)
		return err
	}

	app.Logger.WithField("key", result.Key).Info("Копия каталога выгружена")
	fmt.Printf("\n✅ Копия каталога выгружена!\n")
	fmt.Printf("   URL: %s\n", result.URL)

	if keep == 0 {
		return nil
	}
	removed, err := service.Prune(ctx, keep)
	for _, key := range removed {
		fmt.Printf("🗑  Удалена старая копия: %s\n", key)
	}
	if err != nil {
		fmt.Printf("❌ Ошибка удаления старых копий: %v\n", err)
		return err
	}
	app.Logger.WithField("removed", len(removed)).Info("Старые копии каталога удалены")
	return nil
}

// backupStore возвращает хранилище для копий, по умолчанию S3 из конфигурации
func (app *Application) backupStore() (uploader.ObjectStore, error) {
	if app.BackupStore != nil {
		return app.BackupStore, nil
	}

	client, err := s3.NewClient(&s3.Config{
		Region:     app.Config.AwsRegion,
		AccessKey:  app.Config.AwsAccessKey,
		SecretKey:  app.Config.AwsSecretKey,
		Endpoint:   app.Config.AwsEndpoint,
		BucketName: app.Config.AwsBucketName,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}
	return client, nil
}
