package seed

const (
	countUsersQuery = `SELECT COUNT(*) FROM users`

	insertUserQuery = `
		INSERT INTO users (username, email, password)
		VALUES (:username, :email, :password)
		RETURNING id`

	insertOrganizationQuery = `
		INSERT INTO organizations (name)
		VALUES (:name)
		RETURNING id`

	insertCampaignQuery = `
		INSERT INTO campaigns (organizer_id, name)
		VALUES (:organizer_id, :name)
		RETURNING id`

	insertRequirementQuery = `
		INSERT INTO campaign_requirements (campaign_id, media_type, count)
		VALUES (:campaign_id, :media_type, :count)
		RETURNING id`

	insertApplicationQuery = `
		INSERT INTO campaign_applications (campaign_id, user_id, status)
		VALUES (:campaign_id, :user_id, :status)
		RETURNING id`
)
