package notify

import (
	"fmt"
	"html"
)

// TemplateParams carries the values interpolated into buyer-facing messages.
// Amount and Expiry are already formatted for the resolved language.
type TemplateParams struct {
	ProductTitle string
	VariantTitle string
	Amount       string
	Code         string
	Expiry       string
	CartURL      string
	CodeURL      string
}

// product renders the escaped product/variant display name.
func (p TemplateParams) product() string {
	name := p.ProductTitle
	if p.VariantTitle != "" && p.VariantTitle != "Default Title" {
		name += " (" + p.VariantTitle + ")"
	}
	return html.EscapeString(name)
}

type templateSet struct {
	receivedSubject func(TemplateParams) string
	receivedBody    func(TemplateParams) string
	acceptedSubject func(TemplateParams) string
	acceptedBody    func(TemplateParams) string
	declinedSubject func(TemplateParams) string
	declinedBody    func(TemplateParams) string
}

func templatesFor(lang Language) templateSet {
	if set, ok := catalog[lang]; ok {
		return set
	}
	return catalog[DefaultLanguage]
}

// codeLine, expiryLine and acceptedLinks all render empty when no code was
// provisioned: acceptance can outlive a provisioning failure, and the
// message must not show an empty code or links built from one.
func codeLine(p TemplateParams, format string) string {
	if p.Code == "" {
		return ""
	}
	return fmt.Sprintf("<p>"+format+"</p>", html.EscapeString(p.Code))
}

func acceptedLinks(p TemplateParams, addLabel, applyLabel string) string {
	if p.Code == "" {
		return ""
	}
	return fmt.Sprintf(
		`<p><a href="%s">%s</a></p><p><a href="%s">%s</a></p>`,
		p.CartURL, html.EscapeString(addLabel), p.CodeURL, html.EscapeString(applyLabel),
	)
}

func expiryLine(p TemplateParams, format string) string {
	if p.Code == "" || p.Expiry == "" {
		return ""
	}
	return fmt.Sprintf("<p>"+format+"</p>", html.EscapeString(p.Expiry))
}

var catalog = map[Language]templateSet{
	LangEN: {
		receivedSubject: func(p TemplateParams) string { return "We received your offer" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Thanks! We received your offer of %s for %s. We will get back to you soon.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "Your offer was accepted" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Good news! Your offer of %s for %s was accepted.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Your discount code: <strong>%s</strong>") +
				expiryLine(p, "The code is valid until %s.") +
				acceptedLinks(p, "Add to cart and apply the code", "Apply the code only")
		},
		declinedSubject: func(p TemplateParams) string { return "About your offer" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Unfortunately we cannot accept your offer of %s for %s this time.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangDE: {
		receivedSubject: func(p TemplateParams) string { return "Wir haben Ihr Angebot erhalten" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Vielen Dank! Wir haben Ihr Angebot von %s für %s erhalten und melden uns in Kürze.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "Ihr Angebot wurde angenommen" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Gute Nachrichten! Ihr Angebot von %s für %s wurde angenommen.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Ihr Rabattcode: <strong>%s</strong>") +
				expiryLine(p, "Der Code ist gültig bis %s.") +
				acceptedLinks(p, "In den Warenkorb legen und Code anwenden", "Nur den Code anwenden")
		},
		declinedSubject: func(p TemplateParams) string { return "Zu Ihrem Angebot" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Leider können wir Ihr Angebot von %s für %s diesmal nicht annehmen.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangFR: {
		receivedSubject: func(p TemplateParams) string { return "Nous avons bien reçu votre offre" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Merci ! Nous avons bien reçu votre offre de %s pour %s. Nous revenons vers vous très vite.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "Votre offre a été acceptée" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Bonne nouvelle ! Votre offre de %s pour %s a été acceptée.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Votre code de réduction : <strong>%s</strong>") +
				expiryLine(p, "Le code est valable jusqu'au %s.") +
				acceptedLinks(p, "Ajouter au panier et appliquer le code", "Appliquer le code uniquement")
		},
		declinedSubject: func(p TemplateParams) string { return "À propos de votre offre" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Nous ne pouvons malheureusement pas accepter votre offre de %s pour %s cette fois-ci.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangES: {
		receivedSubject: func(p TemplateParams) string { return "Hemos recibido tu oferta" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>¡Gracias! Hemos recibido tu oferta de %s por %s. Te responderemos pronto.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "Tu oferta ha sido aceptada" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>¡Buenas noticias! Tu oferta de %s por %s ha sido aceptada.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Tu código de descuento: <strong>%s</strong>") +
				expiryLine(p, "El código es válido hasta el %s.") +
				acceptedLinks(p, "Añadir al carrito y aplicar el código", "Aplicar solo el código")
		},
		declinedSubject: func(p TemplateParams) string { return "Sobre tu oferta" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Lamentablemente no podemos aceptar tu oferta de %s por %s esta vez.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangIT: {
		receivedSubject: func(p TemplateParams) string { return "Abbiamo ricevuto la tua offerta" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Grazie! Abbiamo ricevuto la tua offerta di %s per %s. Ti risponderemo al più presto.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "La tua offerta è stata accettata" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Buone notizie! La tua offerta di %s per %s è stata accettata.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Il tuo codice sconto: <strong>%s</strong>") +
				expiryLine(p, "Il codice è valido fino al %s.") +
				acceptedLinks(p, "Aggiungi al carrello e applica il codice", "Applica solo il codice")
		},
		declinedSubject: func(p TemplateParams) string { return "Sulla tua offerta" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Purtroppo questa volta non possiamo accettare la tua offerta di %s per %s.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangNL: {
		receivedSubject: func(p TemplateParams) string { return "We hebben uw bod ontvangen" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Bedankt! We hebben uw bod van %s voor %s ontvangen. We nemen snel contact met u op.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "Uw bod is geaccepteerd" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Goed nieuws! Uw bod van %s voor %s is geaccepteerd.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "Uw kortingscode: <strong>%s</strong>") +
				expiryLine(p, "De code is geldig tot %s.") +
				acceptedLinks(p, "In winkelwagen leggen en code toepassen", "Alleen de code toepassen")
		},
		declinedSubject: func(p TemplateParams) string { return "Over uw bod" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Helaas kunnen we uw bod van %s voor %s deze keer niet accepteren.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
	LangPTPT: {
		receivedSubject: func(p TemplateParams) string { return "Recebemos a sua oferta" },
		receivedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Obrigado! Recebemos a sua oferta de %s por %s. Entraremos em contacto em breve.</p>",
				html.EscapeString(p.Amount), p.product())
		},
		acceptedSubject: func(p TemplateParams) string { return "A sua oferta foi aceite" },
		acceptedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Boas notícias! A sua oferta de %s por %s foi aceite.</p>",
				html.EscapeString(p.Amount), p.product()) +
				codeLine(p, "O seu código de desconto: <strong>%s</strong>") +
				expiryLine(p, "O código é válido até %s.") +
				acceptedLinks(p, "Adicionar ao carrinho e aplicar o código", "Aplicar apenas o código")
		},
		declinedSubject: func(p TemplateParams) string { return "Sobre a sua oferta" },
		declinedBody: func(p TemplateParams) string {
			return fmt.Sprintf("<p>Infelizmente não podemos aceitar a sua oferta de %s por %s desta vez.</p>",
				html.EscapeString(p.Amount), p.product())
		},
	},
}
